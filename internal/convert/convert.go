// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert extracts the plain text of PDF documents with pluggable
// backends. The Extractor concatenates page text in page order, for both
// downloaded and uploaded documents.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/pdiddy/curioquest/internal/acquire"
	"github.com/pdiddy/curioquest/internal/metrics"
	"github.com/pdiddy/curioquest/pkg/types"
)

// Converter turns a PDF into per-page plain text. Different backends
// (pure-Go reader, unipdf, markitdown container) implement this interface.
type Converter interface {
	// Name identifies the backend in logs.
	Name() string

	// Pages reads the PDF from r and returns the text of every page in page order.
	Pages(ctx context.Context, r io.ReaderAt, size int64) ([]string, error)
}

// TextCache stores extracted text keyed by PDF URL.
type TextCache interface {
	Lookup(ctx context.Context, pdfURL string) (string, bool, error)
	Store(ctx context.Context, pdfURL, text string, pages int) error
}

// Extractor downloads or reads PDFs and returns their concatenated text.
type Extractor struct {
	conv   Converter
	client *http.Client
	cfg    types.ExtractionConfig
	cache  TextCache
	log    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCache reuses text extracted earlier from the same URL.
func WithCache(c TextCache) Option {
	return func(e *Extractor) { e.cache = c }
}

// WithLogger sets the logger used for cache and cleanup warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.log = l }
}

// NewExtractor returns an Extractor using conv for page text and client for downloads.
func NewExtractor(conv Converter, client *http.Client, cfg types.ExtractionConfig, opts ...Option) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	e := &Extractor{
		conv:   conv,
		client: client,
		cfg:    cfg,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromURL downloads the PDF at pdfURL into a private temporary file, extracts
// the text of every page, and removes the file. Download and parse failures
// are returned to the caller.
func (e *Extractor) FromURL(ctx context.Context, pdfURL string) (string, error) {
	if e.cache != nil {
		text, ok, err := e.cache.Lookup(ctx, pdfURL)
		if err != nil {
			e.log.Warn("text cache lookup failed", "url", pdfURL, "error", err)
		} else if ok {
			metrics.ExtractTotal.WithLabelValues("cache", "ok").Inc()
			return text, nil
		}
	}

	path, err := acquire.Download(ctx, e.client, pdfURL, e.cfg.TempDir, e.cfg.HTTPConfig)
	if err != nil {
		metrics.ExtractTotal.WithLabelValues("url", "error").Inc()
		return "", fmt.Errorf("downloading %s: %w", pdfURL, err)
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			e.log.Warn("removing temp file", "path", path, "error", err)
		}
	}()

	pages, err := e.pagesFromFile(ctx, path)
	if err != nil {
		metrics.ExtractTotal.WithLabelValues("url", "error").Inc()
		return "", fmt.Errorf("extracting %s: %w", pdfURL, err)
	}
	metrics.ExtractTotal.WithLabelValues("url", "ok").Inc()

	text := JoinPages(pages)
	if e.cache != nil {
		if err := e.cache.Store(ctx, pdfURL, text, len(pages)); err != nil {
			e.log.Warn("text cache store failed", "url", pdfURL, "error", err)
		}
	}
	return text, nil
}

// FromBytes extracts the text of an in-memory PDF, such as an upload.
func (e *Extractor) FromBytes(ctx context.Context, data []byte) (string, error) {
	pages, err := e.conv.Pages(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		metrics.ExtractTotal.WithLabelValues("upload", "error").Inc()
		return "", fmt.Errorf("extracting uploaded PDF with %s: %w", e.conv.Name(), err)
	}
	metrics.ExtractTotal.WithLabelValues("upload", "ok").Inc()
	return JoinPages(pages), nil
}

func (e *Extractor) pagesFromFile(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat PDF %s: %w", path, err)
	}

	pages, err := e.conv.Pages(ctx, f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.conv.Name(), err)
	}
	return pages, nil
}

// JoinPages concatenates page texts in order, ending each page with a newline.
func JoinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		if p != "" && !strings.HasSuffix(p, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// New returns the Converter selected by cfg.Backend. Unknown backends are an error;
// an empty backend selects the pure-Go reader.
func New(cfg types.ExtractionConfig, rt RuntimeDetector) (Converter, error) {
	switch cfg.Backend {
	case "", types.ExtractorPlain:
		return &PlainTextConverter{}, nil
	case types.ExtractorUnipdf:
		return NewUnipdfConverter(cfg.UnipdfLicenseKey)
	case types.ExtractorMarkitdown:
		if rt == nil {
			return nil, fmt.Errorf("markitdown backend needs a container runtime")
		}
		runtime, err := rt()
		if err != nil {
			return nil, err
		}
		return NewMarkitdownConverter(runtime)
	}
	return nil, fmt.Errorf("unknown extraction backend %q (want plain, unipdf or markitdown)", cfg.Backend)
}
