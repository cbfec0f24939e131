// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperRecord is one search hit. It is immutable once parsed from the search
// response and lives in the session until the next search replaces it.
type PaperRecord struct {
	// Title is the whitespace-trimmed paper title. Summaries are keyed by it.
	Title string `json:"title" yaml:"title"`

	// Abstract is the whitespace-trimmed paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PDFURL links to the paper's PDF.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Citation is "<authors>. '<title>'. <published>.".
	Citation string `json:"citation" yaml:"citation"`

	// Identifier is the arXiv ID (e.g. "2301.07041"), empty when unknown.
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Published is the raw publication timestamp from the feed.
	Published string `json:"published,omitempty" yaml:"published,omitempty"`
}

// IsError reports whether r is the search failure sentinel.
func (r PaperRecord) IsError() bool {
	return r.Title == ErrorTitle
}
