// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the structured logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pdiddy/curioquest/pkg/types"
)

// New returns a logger writing to w at cfg.Level in cfg.Format ("text" or
// "json"). Empty fields default to info and text.
func New(cfg types.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", cfg.Format)
	}
	return slog.New(h), nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
