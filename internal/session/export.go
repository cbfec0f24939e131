// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"fmt"
	"io"
	"sort"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curioquest/pkg/types"
)

// Snapshot is a point-in-time copy of a session for export.
type Snapshot struct {
	ID           string              `json:"id" yaml:"id"`
	CreatedAt    time.Time           `json:"created_at" yaml:"created_at"`
	Keyword      string              `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Results      []types.PaperRecord `json:"results,omitempty" yaml:"results,omitempty"`
	Selected     string              `json:"selected,omitempty" yaml:"selected,omitempty"`
	Summaries    []TitledText        `json:"summaries,omitempty" yaml:"summaries,omitempty"`
	Translations []TitledText        `json:"translations,omitempty" yaml:"translations,omitempty"`
	Chat         []types.ChatTurn    `json:"chat,omitempty" yaml:"chat,omitempty"`
	Upload       *Upload             `json:"upload,omitempty" yaml:"upload,omitempty"`
}

// TitledText pairs a paper title with text generated for it.
type TitledText struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// Snapshot copies the session. Summaries and translations are sorted by title.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ID:           s.id,
		CreatedAt:    s.created,
		Keyword:      s.keyword,
		Results:      append([]types.PaperRecord(nil), s.results...),
		Selected:     s.selected,
		Summaries:    sortedTexts(s.summaries),
		Translations: sortedTexts(s.translations),
		Chat:         append([]types.ChatTurn(nil), s.chat...),
	}
	if s.upload != nil {
		u := *s.upload
		snap.Upload = &u
	}
	return snap
}

// ExportYAML writes the session snapshot as YAML to w.
func (s *State) ExportYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.Snapshot()); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

func sortedTexts(m map[string]string) []TitledText {
	out := make([]TitledText, 0, len(m))
	for title, text := range m {
		out = append(out, TitledText{Title: title, Text: text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}
