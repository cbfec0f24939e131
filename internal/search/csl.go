package search

import (
	"io"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curioquest/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID       string    `yaml:"id" json:"id"`
	Type     string    `yaml:"type" json:"type"`
	Title    string    `yaml:"title" json:"title"`
	Author   []CSLName `yaml:"author,omitempty" json:"author,omitempty"`
	Abstract string    `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Issued   *CSLDate  `yaml:"issued,omitempty" json:"issued,omitempty"`
	URL      string    `yaml:"URL,omitempty" json:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty" json:"family,omitempty"`
	Given   string `yaml:"given,omitempty" json:"given,omitempty"`
	Literal string `yaml:"literal,omitempty" json:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts" json:"date-parts"`
}

// FormatCSL writes records as a CSL-YAML list to w. The error sentinel is skipped.
func FormatCSL(records []types.PaperRecord, w io.Writer) error {
	items := make([]CSLItem, 0, len(records))
	for _, r := range records {
		if r.IsError() {
			continue
		}
		items = append(items, ToCSLItem(r))
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// ToCSLItem converts a PaperRecord to a CSLItem.
func ToCSLItem(r types.PaperRecord) CSLItem {
	item := CSLItem{
		ID:       r.Identifier,
		Type:     "article",
		Title:    r.Title,
		Abstract: r.Abstract,
		URL:      r.PDFURL,
	}
	if item.ID == "" {
		item.ID = r.Title
	}

	for _, a := range r.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if t, err := time.Parse(time.RFC3339, r.Published); err == nil {
		item.Issued = &CSLDate{
			DateParts: [][]int{{t.Year(), int(t.Month()), t.Day()}},
		}
	}

	return item
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
