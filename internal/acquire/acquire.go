// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads remote PDFs into private temporary files.
// Every download gets its own file so concurrent extractions never share a
// path; the caller removes the file once it has been read.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pdiddy/curioquest/internal/httputil"
	"github.com/pdiddy/curioquest/pkg/types"
)

const tempPattern = "curioquest-*.pdf"

// Download fetches pdfURL into a new temporary file created under dir (or
// os.TempDir when dir is empty) and returns its path. It sets User-Agent and
// requests PDF via the Accept header. The HTTP client handles redirects.
// On any failure the partial file is removed and no path is returned.
func Download(ctx context.Context, client *http.Client, pdfURL, dir string, cfg types.HTTPConfig) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, pdfURL)
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	tmpFile, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}
	return tmpPath, nil
}
