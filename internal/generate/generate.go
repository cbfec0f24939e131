// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate turns text into summaries, translations and answers by
// prompting a single text-to-text model. Each task has a fixed prompt
// template, an input token cap and output length bounds.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/curioquest/internal/metrics"
	"github.com/pdiddy/curioquest/pkg/types"
)

// Input caps and output bounds, in approximate (whitespace) tokens.
const (
	SummarizeInputTokens = 2048
	TranslateInputTokens = 2500
	AnswerInputTokens    = 2048

	// TranslateSearchMax bounds translations of paper abstracts.
	TranslateSearchMax = 1024
	// TranslateUploadMax bounds translations of stored upload summaries.
	TranslateUploadMax = 2500

	AnswerMin = 10
	AnswerMax = 500

	numBeams             = 4
	summaryLengthPenalty = 2.0
)

// Task names a generator operation; it labels metrics and log lines.
type Task string

const (
	TaskSummarize Task = "summarize"
	TaskTranslate Task = "translate"
	TaskAnswer    Task = "answer"
)

// Params are the decoding parameters sent with one model call.
type Params struct {
	MinLength     int     `json:"min_length"`
	MaxLength     int     `json:"max_length"`
	NumBeams      int     `json:"num_beams"`
	LengthPenalty float64 `json:"length_penalty,omitempty"`
	EarlyStopping bool    `json:"early_stopping"`
}

// Backend runs one prompt through a hosted model. Implementations must be
// safe to share; the Generator still serializes calls.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string, p Params) (string, error)
}

// LengthPreset bounds the length of a generated summary.
type LengthPreset struct {
	Min int
	Max int
}

var presets = map[types.SummaryLength]LengthPreset{
	types.SummaryShort:    {Min: 50, Max: 500},
	types.SummaryModerate: {Min: 200, Max: 1000},
	types.SummaryDetailed: {Min: 500, Max: 2500},
}

// PresetFor returns the output bounds for length. Unknown lengths get the moderate preset.
func PresetFor(length types.SummaryLength) LengthPreset {
	if p, ok := presets[length]; ok {
		return p
	}
	return presets[types.SummaryModerate]
}

// Result is the output of one generator operation.
type Result struct {
	Text string `json:"text"`
	// Truncated reports that the prompt exceeded the input cap and was cut.
	Truncated bool `json:"truncated,omitempty"`
}

// Generator prompts a Backend for each task. Backend calls are serialized
// and optionally rate limited.
type Generator struct {
	backend Backend
	limiter *rate.Limiter
	log     *slog.Logger

	mu sync.Mutex
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for truncation warnings and call logs.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// New returns a Generator over backend. cfg.RequestsPerMinute > 0 enables rate limiting.
func New(backend Backend, cfg types.ModelConfig, opts ...Option) *Generator {
	g := &Generator{backend: backend, log: slog.Default()}
	if cfg.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60), 1)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Backend returns the name of the underlying model backend.
func (g *Generator) Backend() string { return g.backend.Name() }

// Summarize produces a summary of text bounded by the preset for length.
func (g *Generator) Summarize(ctx context.Context, text string, length types.SummaryLength) (Result, error) {
	preset := PresetFor(length)
	prompt, err := render(summarizeTmpl, promptData{Text: text, Instruction: instructionFor(length)})
	if err != nil {
		return Result{}, err
	}
	return g.run(ctx, TaskSummarize, prompt, SummarizeInputTokens, Params{
		MinLength:     preset.Min,
		MaxLength:     preset.Max,
		NumBeams:      numBeams,
		LengthPenalty: summaryLengthPenalty,
		EarlyStopping: true,
	})
}

// Translate renders text into lang with at most maxLen output tokens.
// Callers reject English targets before calling.
func (g *Generator) Translate(ctx context.Context, text, lang string, maxLen int) (Result, error) {
	if maxLen <= 0 {
		maxLen = TranslateSearchMax
	}
	prompt, err := render(translateTmpl, promptData{Text: text, Lang: lang})
	if err != nil {
		return Result{}, err
	}
	return g.run(ctx, TaskTranslate, prompt, TranslateInputTokens, Params{
		MaxLength:     maxLen,
		NumBeams:      numBeams,
		EarlyStopping: true,
	})
}

// Answer responds to question using text as context.
func (g *Generator) Answer(ctx context.Context, text, question string) (Result, error) {
	prompt, err := render(answerTmpl, promptData{Text: text, Question: question})
	if err != nil {
		return Result{}, err
	}
	return g.run(ctx, TaskAnswer, prompt, AnswerInputTokens, Params{
		MinLength:     AnswerMin,
		MaxLength:     AnswerMax,
		NumBeams:      numBeams,
		EarlyStopping: true,
	})
}

func (g *Generator) run(ctx context.Context, task Task, prompt string, inputCap int, p Params) (Result, error) {
	prompt, truncated := TruncateTokens(prompt, inputCap)
	if truncated {
		metrics.ModelTruncatedTotal.WithLabelValues(string(task)).Inc()
		g.log.Warn("prompt truncated to input cap", "task", task, "cap_tokens", inputCap)
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return Result{}, fmt.Errorf("waiting for model rate limit: %w", err)
		}
	}

	g.mu.Lock()
	start := time.Now()
	out, err := g.backend.Generate(ctx, prompt, p)
	elapsed := time.Since(start)
	g.mu.Unlock()

	metrics.ModelDuration.WithLabelValues(string(task)).Observe(elapsed.Seconds())
	if err != nil {
		metrics.ModelCallsTotal.WithLabelValues(string(task), "error").Inc()
		g.log.Error("model call failed", "task", task, "backend", g.backend.Name(), "error", err)
		return Result{}, fmt.Errorf("%s with %s: %w", task, g.backend.Name(), err)
	}
	metrics.ModelCallsTotal.WithLabelValues(string(task), "ok").Inc()
	g.log.Debug("model call", "task", task, "backend", g.backend.Name(), "duration", elapsed)

	out, _ = TruncateTokens(strings.TrimSpace(out), p.MaxLength)
	return Result{Text: out, Truncated: truncated}, nil
}

// TruncateTokens keeps the first max whitespace-separated tokens of s.
// It reports whether anything was cut; untouched input is returned as-is.
func TruncateTokens(s string, max int) (string, bool) {
	if max <= 0 {
		return s, false
	}
	fields := strings.Fields(s)
	if len(fields) <= max {
		return s, false
	}
	return strings.Join(fields[:max], " "), true
}
