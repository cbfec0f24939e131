// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// UnipdfConverter reads PDFs with unidoc/unipdf, which handles more font
// encodings than the pure-Go reader but needs a metered license key.
type UnipdfConverter struct{}

// NewUnipdfConverter registers the license key and returns the converter.
func NewUnipdfConverter(licenseKey string) (*UnipdfConverter, error) {
	if licenseKey == "" {
		return nil, fmt.Errorf("unipdf backend requires extraction.unipdf_license_key")
	}
	if err := license.SetMeteredKey(licenseKey); err != nil {
		return nil, fmt.Errorf("setting unipdf license: %w", err)
	}
	return &UnipdfConverter{}, nil
}

// Name returns the backend identifier.
func (c *UnipdfConverter) Name() string { return "unipdf" }

// Pages returns the text of every page in order.
func (c *UnipdfConverter) Pages(ctx context.Context, r io.ReaderAt, size int64) ([]string, error) {
	reader, err := model.NewPdfReader(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := reader.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return nil, fmt.Errorf("page %d extractor: %w", i, err)
		}
		text, err := ex.ExtractText()
		if err != nil {
			return nil, fmt.Errorf("page %d text: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
