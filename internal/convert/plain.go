// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PlainTextConverter reads PDFs with the pure-Go ledongthuc/pdf reader.
// It needs no external tools and is the default backend.
type PlainTextConverter struct{}

// Name returns the backend identifier.
func (c *PlainTextConverter) Name() string { return "plain" }

// Pages returns the plain text of every page. The reader panics on some
// malformed documents; those panics are returned as errors.
func (c *PlainTextConverter) Pages(ctx context.Context, r io.ReaderAt, size int64) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("reading PDF: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	n := reader.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
