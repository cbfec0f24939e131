// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// SummaryLength selects one of the fixed summary presets.
type SummaryLength string

const (
	SummaryShort    SummaryLength = "short"
	SummaryModerate SummaryLength = "moderate"
	SummaryDetailed SummaryLength = "detailed"
)

// SummaryLengths lists the presets from shortest to longest.
var SummaryLengths = []SummaryLength{SummaryShort, SummaryModerate, SummaryDetailed}

// SummaryLengthChoices returns the preset names joined for help and error text.
func SummaryLengthChoices() string {
	names := make([]string, len(SummaryLengths))
	for i, l := range SummaryLengths {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

// ParseSummaryLength maps user input ("Short", "moderate", ...) to a
// SummaryLength. An empty string selects SummaryModerate.
func ParseSummaryLength(s string) (SummaryLength, error) {
	v := SummaryLength(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return SummaryModerate, nil
	}
	for _, l := range SummaryLengths {
		if v == l {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown summary length %q (want one of %s)", s, SummaryLengthChoices())
}

// ChatTurn is one answered question. Turns are appended in order and never
// removed for the life of a session.
type ChatTurn struct {
	Question string    `json:"question" yaml:"question"`
	Answer   string    `json:"answer" yaml:"answer"`
	Paper    string    `json:"paper" yaml:"paper"`
	AskedAt  time.Time `json:"asked_at" yaml:"asked_at"`
}
