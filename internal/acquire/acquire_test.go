// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curioquest/pkg/types"
)

const fakePDFContent = "%PDF-1.4 fake"

func testHTTPConfig() types.HTTPConfig {
	return types.HTTPConfig{UserAgent: "curioquest-test/0.1"}
}

func TestDownload(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, fakePDFContent)
	}))
	defer ts.Close()

	dir := t.TempDir()
	path, err := Download(context.Background(), ts.Client(), ts.URL+"/pdf/1706.03762", dir, testHTTPConfig())
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fakePDFContent, string(data))
	assert.Equal(t, "curioquest-test/0.1", gotUA)
	assert.Equal(t, "application/pdf", gotAccept)
}

func TestDownloadUniquePaths(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.URL.Path)
	}))
	defer ts.Close()

	dir := t.TempDir()
	const n = 8
	paths := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = Download(context.Background(), ts.Client(),
				fmt.Sprintf("%s/paper-%d", ts.URL, i), dir, testHTTPConfig())
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[paths[i]], "path %s reused", paths[i])
		seen[paths[i]] = true

		data, err := os.ReadFile(paths[i])
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("/paper-%d", i), string(data), "downloads must not clobber each other")
	}
}

func TestDownloadHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	dir := t.TempDir()
	_, err := Download(context.Background(), ts.Client(), ts.URL+"/missing.pdf", dir, testHTTPConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file should be left behind")
}

func TestDownloadCreatesDir(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, fakePDFContent)
	}))
	defer ts.Close()

	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	path, err := Download(context.Background(), ts.Client(), ts.URL, dir, testHTTPConfig())
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestDownloadBadURL(t *testing.T) {
	_, err := Download(context.Background(), http.DefaultClient, "://bad", t.TempDir(), testHTTPConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating request")
}
