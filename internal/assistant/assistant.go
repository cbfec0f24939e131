// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assistant implements the user-facing operations: searching
// papers, summarizing, translating, citing, answering questions, and the
// same for uploaded PDFs. Every operation reads and writes an explicit
// session; blocking work runs on the shared worker queue.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pdiddy/curioquest/internal/generate"
	"github.com/pdiddy/curioquest/internal/metrics"
	"github.com/pdiddy/curioquest/internal/search"
	"github.com/pdiddy/curioquest/internal/session"
	"github.com/pdiddy/curioquest/internal/worker"
	"github.com/pdiddy/curioquest/pkg/types"
)

// DefaultLanguage is the translation target assumed when none is given.
const DefaultLanguage = "en"

// Extractor returns the plain text of a PDF. *convert.Extractor satisfies it.
type Extractor interface {
	FromURL(ctx context.Context, pdfURL string) (string, error)
	FromBytes(ctx context.Context, data []byte) (string, error)
}

// Generator produces model text. *generate.Generator satisfies it.
type Generator interface {
	Summarize(ctx context.Context, text string, length types.SummaryLength) (generate.Result, error)
	Translate(ctx context.Context, text, lang string, maxLen int) (generate.Result, error)
	Answer(ctx context.Context, text, question string) (generate.Result, error)
}

// Service wires the paper source, extractor and generator together.
type Service struct {
	source    search.Source
	extractor Extractor
	gen       Generator
	queue     *worker.Queue
	log       *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New returns a Service. Blocking calls are submitted to queue.
func New(source search.Source, extractor Extractor, gen Generator, queue *worker.Queue, opts ...Option) *Service {
	s := &Service{
		source:    source,
		extractor: extractor,
		gen:       gen,
		queue:     queue,
		log:       slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search queries the paper source and stores the results in st. An
// upstream failure comes back as the single error record.
func (s *Service) Search(ctx context.Context, st *session.State, keyword string) ([]types.PaperRecord, error) {
	records, err := worker.Do(ctx, s.queue, func(ctx context.Context) ([]types.PaperRecord, error) {
		return s.source.Search(ctx, keyword)
	})
	if err != nil {
		metrics.SearchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("searching %s for %q: %w", s.source.Name(), keyword, err)
	}
	if search.HasError(records) {
		metrics.SearchTotal.WithLabelValues("sentinel").Inc()
		s.log.Warn("search returned error record", "keyword", keyword, "source", s.source.Name())
	} else {
		metrics.SearchTotal.WithLabelValues("ok").Inc()
	}
	st.SetResults(keyword, records)
	return records, nil
}

// Summarize extracts the text of the paper titled title and summarizes it.
// The summary is stored under the title and the paper becomes the selected one.
func (s *Service) Summarize(ctx context.Context, st *session.State, title string, length types.SummaryLength) (string, error) {
	paper, ok := st.Paper(title)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrPaperNotFound, title)
	}

	text, err := s.extract(ctx, paper.PDFURL)
	if err != nil {
		return "", err
	}

	res, err := worker.Do(ctx, s.queue, func(ctx context.Context) (generate.Result, error) {
		return s.gen.Summarize(ctx, text, length)
	})
	if err != nil {
		return "", fmt.Errorf("summarizing %q: %w", paper.Title, err)
	}

	st.SetSummary(paper.Title, res.Text)
	st.Select(paper.Title)
	return res.Text, nil
}

// Translate translates the abstract of the paper titled title into lang.
// It refuses without calling the model when the paper has not been
// summarized or when lang is English.
func (s *Service) Translate(ctx context.Context, st *session.State, title, lang string) (string, error) {
	title = strings.TrimSpace(title)
	if _, ok := st.Summary(title); !ok {
		return "", ErrNotSummarized
	}
	lang, err := targetLanguage(lang)
	if err != nil {
		return "", err
	}
	paper, ok := st.Paper(title)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrPaperNotFound, title)
	}

	res, err := worker.Do(ctx, s.queue, func(ctx context.Context) (generate.Result, error) {
		return s.gen.Translate(ctx, paper.Abstract, lang, generate.TranslateSearchMax)
	})
	if err != nil {
		return "", fmt.Errorf("translating %q to %s: %w", paper.Title, lang, err)
	}
	st.SetTranslation(paper.Title, res.Text)
	return res.Text, nil
}

// Citation is the citation text for a paper together with its PDF link.
type Citation struct {
	Text   string         `json:"citation"`
	PDFURL string         `json:"pdf_url"`
	CSL    search.CSLItem `json:"csl"`
}

// Cite returns the citation of the paper titled title.
func (s *Service) Cite(st *session.State, title string) (Citation, error) {
	paper, ok := st.Paper(title)
	if !ok {
		return Citation{}, fmt.Errorf("%w: %q", ErrPaperNotFound, title)
	}
	return Citation{Text: paper.Citation, PDFURL: paper.PDFURL, CSL: search.ToCSLItem(paper)}, nil
}

// Ask answers question about the paper titled title, or the selected paper
// (the first search result unless another was chosen) when title is empty. The turn is appended to the chat history.
func (s *Service) Ask(ctx context.Context, st *session.State, title, question string) (types.ChatTurn, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = st.Selected()
	}
	if title == "" {
		return types.ChatTurn{}, ErrNoPaperSelected
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return types.ChatTurn{}, ErrEmptyQuestion
	}
	paper, ok := st.Paper(title)
	if !ok {
		return types.ChatTurn{}, fmt.Errorf("%w: %q", ErrPaperNotFound, title)
	}

	text, err := s.extract(ctx, paper.PDFURL)
	if err != nil {
		return types.ChatTurn{}, err
	}
	return s.answer(ctx, st, paper.Title, text, question)
}

// Upload extracts the text of an uploaded PDF and makes it the session's
// upload, replacing any earlier one.
func (s *Service) Upload(ctx context.Context, st *session.State, filename string, data []byte) (session.Upload, error) {
	if len(data) == 0 {
		return session.Upload{}, ErrNoUpload
	}
	text, err := worker.Do(ctx, s.queue, func(ctx context.Context) (string, error) {
		return s.extractor.FromBytes(ctx, data)
	})
	if err != nil {
		return session.Upload{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	st.SetUpload(filename, text, s.now())
	u, _ := st.Upload()
	return u, nil
}

// Fetch downloads the PDF at pdfURL and makes its text the session's
// upload, as if the file had been uploaded.
func (s *Service) Fetch(ctx context.Context, st *session.State, pdfURL string) (session.Upload, error) {
	text, err := s.extract(ctx, pdfURL)
	if err != nil {
		return session.Upload{}, err
	}
	st.SetUpload(pdfURL, text, s.now())
	u, _ := st.Upload()
	return u, nil
}

// TranslateText translates free text into lang, bounded like abstract translations.
func (s *Service) TranslateText(ctx context.Context, text, lang string) (string, error) {
	lang, err := targetLanguage(lang)
	if err != nil {
		return "", err
	}
	res, err := worker.Do(ctx, s.queue, func(ctx context.Context) (generate.Result, error) {
		return s.gen.Translate(ctx, text, lang, generate.TranslateSearchMax)
	})
	if err != nil {
		return "", fmt.Errorf("translating to %s: %w", lang, err)
	}
	return res.Text, nil
}

// SummarizeUpload summarizes the uploaded document.
func (s *Service) SummarizeUpload(ctx context.Context, st *session.State, length types.SummaryLength) (string, error) {
	u, ok := st.Upload()
	if !ok {
		return "", ErrNoUpload
	}
	res, err := worker.Do(ctx, s.queue, func(ctx context.Context) (generate.Result, error) {
		return s.gen.Summarize(ctx, u.Text, length)
	})
	if err != nil {
		return "", fmt.Errorf("summarizing upload %s: %w", u.Filename, err)
	}
	st.SetUploadSummary(res.Text, length)
	return res.Text, nil
}

// TranslateUpload translates the stored summary of the upload into lang.
func (s *Service) TranslateUpload(ctx context.Context, st *session.State, lang string) (string, error) {
	if _, ok := st.Upload(); !ok {
		return "", ErrNoUpload
	}
	summary, ok := st.Summary(session.UploadTitle)
	if !ok {
		return "", ErrNotSummarized
	}
	lang, err := targetLanguage(lang)
	if err != nil {
		return "", err
	}

	res, err := worker.Do(ctx, s.queue, func(ctx context.Context) (generate.Result, error) {
		return s.gen.Translate(ctx, summary, lang, generate.TranslateUploadMax)
	})
	if err != nil {
		return "", fmt.Errorf("translating upload summary to %s: %w", lang, err)
	}
	st.SetUploadTranslation(res.Text)
	return res.Text, nil
}

// AskUpload answers question using the uploaded document as context.
func (s *Service) AskUpload(ctx context.Context, st *session.State, question string) (types.ChatTurn, error) {
	u, ok := st.Upload()
	if !ok {
		return types.ChatTurn{}, ErrNoUpload
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return types.ChatTurn{}, ErrEmptyQuestion
	}
	return s.answer(ctx, st, session.UploadTitle, u.Text, question)
}

func (s *Service) answer(ctx context.Context, st *session.State, title, text, question string) (types.ChatTurn, error) {
	res, err := worker.Do(ctx, s.queue, func(ctx context.Context) (generate.Result, error) {
		return s.gen.Answer(ctx, text, question)
	})
	if err != nil {
		return types.ChatTurn{}, fmt.Errorf("answering about %q: %w", title, err)
	}
	turn := types.ChatTurn{Question: question, Answer: res.Text, Paper: title, AskedAt: s.now()}
	st.AppendChat(turn)
	return turn, nil
}

func (s *Service) extract(ctx context.Context, pdfURL string) (string, error) {
	text, err := worker.Do(ctx, s.queue, func(ctx context.Context) (string, error) {
		return s.extractor.FromURL(ctx, pdfURL)
	})
	if err != nil {
		return "", fmt.Errorf("reading paper: %w", err)
	}
	return text, nil
}

// targetLanguage normalizes lang, defaulting to English, and rejects English targets.
func targetLanguage(lang string) (string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = DefaultLanguage
	}
	if lang == DefaultLanguage || lang == "english" {
		return "", ErrEnglishTarget
	}
	return lang, nil
}
