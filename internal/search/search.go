// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the paper metadata API and returns paper records.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/curioquest/pkg/types"
)

// DefaultMaxResults is the number of matches requested when the config
// leaves MaxResults unset, and the most a search ever returns.
const DefaultMaxResults = 5

// Source searches a single metadata API by keyword.
type Source interface {
	Name() string
	Search(ctx context.Context, keyword string) ([]types.PaperRecord, error)
}

// HasError reports whether records is the single-sentinel failure result.
func HasError(records []types.PaperRecord) bool {
	return len(records) == 1 && records[0].IsError()
}

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.PaperRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	if HasError(records) {
		fmt.Fprintf(w, "%s: %s\n", records[0].Title, records[0].Abstract)
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-10s  %s\n", "Rank", "Title", "Authors", "Published", "PDF")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, r := range records {
		title := truncate(r.Title, 60)
		published := r.Published
		if len(published) > 10 {
			published = published[:10]
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-10s  %s\n",
			i+1, title, formatAuthors(r.Authors), published, r.PDFURL)
	}

	fmt.Fprintf(w, "\n%d results\n", len(records))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []types.PaperRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
