// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Key files read by curioquest.
const (
	HuggingFaceAPIKey = "huggingface-api-key"
	AnthropicAPIKey   = "anthropic-api-key"
	UnipdfLicenseKey  = "unipdf-license-key"
)

var known = map[string]bool{
	HuggingFaceAPIKey: true,
	AnthropicAPIKey:   true,
	UnipdfLicenseKey:  true,
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Unknown returns the sorted names in s that curioquest does not read,
// usually misspelled key files.
func Unknown(s map[string]string) []string {
	var out []string
	for name := range s {
		if !known[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
