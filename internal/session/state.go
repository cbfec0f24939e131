// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds per-user interaction state: the latest search
// results, the selected paper, generated summaries and translations, the
// chat history and an uploaded document. State lives in memory for the
// life of the process. There is no eviction and no size bound.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/curioquest/pkg/types"
)

// UploadTitle is the title under which uploaded documents are summarized and discussed.
const UploadTitle = "Uploaded PDF"

// Upload is a document uploaded into the session and what was generated from it.
type Upload struct {
	Filename    string              `json:"filename" yaml:"filename"`
	Text        string              `json:"-" yaml:"-"`
	Chars       int                 `json:"chars" yaml:"chars"`
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Length      types.SummaryLength `json:"length,omitempty" yaml:"length,omitempty"`
	Translation string              `json:"translation,omitempty" yaml:"translation,omitempty"`
	UploadedAt  time.Time           `json:"uploaded_at" yaml:"uploaded_at"`
}

// State is one session. Accessors copy data in and out so callers never
// share slices or maps with the store.
type State struct {
	id      string
	created time.Time

	// turn admits one handler at a time.
	turn chan struct{}

	mu           sync.RWMutex
	keyword      string
	results      []types.PaperRecord
	selected     string
	summaries    map[string]string
	translations map[string]string
	chat         []types.ChatTurn
	upload       *Upload
}

func newState(id string, now time.Time) *State {
	return &State{
		id:           id,
		created:      now,
		turn:         make(chan struct{}, 1),
		summaries:    map[string]string{},
		translations: map[string]string{},
	}
}

// ID returns the session identifier.
func (s *State) ID() string { return s.id }

// CreatedAt returns when the session was created.
func (s *State) CreatedAt() time.Time { return s.created }

// Acquire waits until no other handler is running for this session. The
// returned func releases the turn.
func (s *State) Acquire(ctx context.Context) (func(), error) {
	select {
	case s.turn <- struct{}{}:
		return func() { <-s.turn }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SetResults replaces the latest search results and clears the selection.
func (s *State) SetResults(keyword string, records []types.PaperRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyword = keyword
	s.results = append([]types.PaperRecord(nil), records...)
	s.selected = ""
}

// Results returns the keyword and records of the latest search.
func (s *State) Results() (string, []types.PaperRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keyword, append([]types.PaperRecord(nil), s.results...)
}

// Paper finds a record in the latest results by title. Titles are compared
// after trimming surrounding whitespace.
func (s *State) Paper(title string) (types.PaperRecord, bool) {
	title = strings.TrimSpace(title)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.results {
		if r.Title == title && !r.IsError() {
			return r, true
		}
	}
	return types.PaperRecord{}, false
}

// Select marks title as the paper the chat refers to.
func (s *State) Select(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = strings.TrimSpace(title)
}

// Selected returns the selected paper title. Without an explicit selection
// the first result of the latest search is selected; "" means there is no
// paper to select.
func (s *State) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected != "" {
		return s.selected
	}
	for _, r := range s.results {
		if !r.IsError() {
			return r.Title
		}
	}
	return ""
}

// SetSummary stores the summary generated for title, replacing any earlier one.
func (s *State) SetSummary(title, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[title] = summary
}

// Summary returns the summary stored for title.
func (s *State) Summary(title string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.summaries[title]
	return v, ok
}

// SetTranslation stores the latest translation produced for title.
func (s *State) SetTranslation(title, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translations[title] = text
}

// Translation returns the latest translation for title.
func (s *State) Translation(title string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.translations[title]
	return v, ok
}

// AppendChat adds a turn to the end of the chat history.
func (s *State) AppendChat(turn types.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, turn)
}

// Chat returns the chat history in the order turns were added.
func (s *State) Chat() []types.ChatTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.ChatTurn(nil), s.chat...)
}

// SetUpload replaces the uploaded document. Anything generated from the
// previous upload is discarded.
func (s *State) SetUpload(filename, text string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = &Upload{Filename: filename, Text: text, Chars: len(text), UploadedAt: now}
	delete(s.summaries, UploadTitle)
	delete(s.translations, UploadTitle)
}

// Upload returns a copy of the uploaded document.
func (s *State) Upload() (Upload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.upload == nil {
		return Upload{}, false
	}
	return *s.upload, true
}

// SetUploadSummary records the summary of the current upload. It is also
// stored under UploadTitle with the paper summaries.
func (s *State) SetUploadSummary(summary string, length types.SummaryLength) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upload == nil {
		return
	}
	s.upload.Summary = summary
	s.upload.Length = length
	s.summaries[UploadTitle] = summary
}

// SetUploadTranslation records the latest translation of the upload summary.
func (s *State) SetUploadTranslation(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upload == nil {
		return
	}
	s.upload.Translation = text
	s.translations[UploadTitle] = text
}
