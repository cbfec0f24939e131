// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curioquest/internal/generate"
	"github.com/pdiddy/curioquest/internal/session"
	"github.com/pdiddy/curioquest/internal/worker"
	"github.com/pdiddy/curioquest/pkg/types"
)

type fakeSource struct {
	records []types.PaperRecord
	err     error
	got     []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Search(_ context.Context, keyword string) ([]types.PaperRecord, error) {
	f.got = append(f.got, keyword)
	return f.records, f.err
}

type fakeExtractor struct {
	text string
	err  error
	urls []string
}

func (f *fakeExtractor) FromURL(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.text, f.err
}

func (f *fakeExtractor) FromBytes(_ context.Context, data []byte) (string, error) {
	return f.text, f.err
}

// fakeGenerator records every model call.
type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeGenerator) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGenerator) Summarize(_ context.Context, text string, length types.SummaryLength) (generate.Result, error) {
	f.record("summarize:" + string(length))
	return generate.Result{Text: "summary of " + text}, f.err
}

func (f *fakeGenerator) Translate(_ context.Context, text, lang string, maxLen int) (generate.Result, error) {
	f.record(fmt.Sprintf("translate:%s:%d", lang, maxLen))
	return generate.Result{Text: lang + "(" + text + ")"}, f.err
}

func (f *fakeGenerator) Answer(_ context.Context, text, question string) (generate.Result, error) {
	f.record("answer:" + question)
	return generate.Result{Text: "answer from " + text}, f.err
}

type fixture struct {
	svc *Service
	src *fakeSource
	ext *fakeExtractor
	gen *fakeGenerator
	st  *session.State
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	q := worker.NewQueue(1, 4)
	t.Cleanup(q.Close)

	f := &fixture{
		src: &fakeSource{records: []types.PaperRecord{
			{Title: "BERT", Abstract: "Bidirectional encoders.", PDFURL: "http://arxiv.org/pdf/1810.04805v2", Citation: "Devlin. 'BERT'. 2018."},
		}},
		ext: &fakeExtractor{text: "paper body"},
		gen: &fakeGenerator{},
	}
	f.svc = New(f.src, f.ext, f.gen, q)
	f.st, _ = session.NewManager().Get("")
	return f
}

func TestSearch_StoresResults(t *testing.T) {
	f := newFixture(t)

	recs, err := f.svc.Search(context.Background(), f.st, "")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, []string{""}, f.src.got)

	_, stored := f.st.Results()
	assert.Equal(t, recs, stored)
}

func TestSearch_SentinelIsStored(t *testing.T) {
	f := newFixture(t)
	f.src.records = []types.PaperRecord{types.ErrorRecord()}

	recs, err := f.svc.Search(context.Background(), f.st, "x")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].IsError())
}

func TestSearch_TransportError(t *testing.T) {
	f := newFixture(t)
	f.src.err = errors.New("connection refused")

	_, err := f.svc.Search(context.Background(), f.st, "x")
	require.Error(t, err)
	assert.False(t, IsUserError(err))
}

func TestSummarize(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Search(context.Background(), f.st, "bert")
	require.NoError(t, err)

	summary, err := f.svc.Summarize(context.Background(), f.st, " BERT ", types.SummaryShort)
	require.NoError(t, err)
	assert.Equal(t, "summary of paper body", summary)
	assert.Equal(t, []string{"http://arxiv.org/pdf/1810.04805v2"}, f.ext.urls)

	stored, ok := f.st.Summary("BERT")
	require.True(t, ok)
	assert.Equal(t, summary, stored)
	assert.Equal(t, "BERT", f.st.Selected())
}

func TestSummarize_UnknownPaper(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Summarize(context.Background(), f.st, "missing", types.SummaryShort)
	assert.ErrorIs(t, err, ErrPaperNotFound)
	assert.Empty(t, f.gen.calls)
}

func TestSummarize_ExtractionFailure(t *testing.T) {
	f := newFixture(t)
	_, _ = f.svc.Search(context.Background(), f.st, "bert")
	f.ext.err = errors.New("404 Not Found")

	_, err := f.svc.Summarize(context.Background(), f.st, "BERT", types.SummaryShort)
	require.Error(t, err)
	assert.False(t, IsUserError(err))
	assert.Empty(t, f.gen.calls)
	_, ok := f.st.Summary("BERT")
	assert.False(t, ok)
}

func TestTranslate_Preconditions(t *testing.T) {
	tests := []struct {
		name      string
		summarize bool
		lang      string
		wantErr   error
	}{
		{"before summary", false, "fr", ErrNotSummarized},
		{"before summary english", false, "en", ErrNotSummarized},
		{"english target", true, "en", ErrEnglishTarget},
		{"english uppercase", true, " EN ", ErrEnglishTarget},
		{"empty defaults to english", true, "", ErrEnglishTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, _ = f.svc.Search(context.Background(), f.st, "bert")
			if tt.summarize {
				_, err := f.svc.Summarize(context.Background(), f.st, "BERT", types.SummaryShort)
				require.NoError(t, err)
			}
			before := len(f.gen.calls)

			_, err := f.svc.Translate(context.Background(), f.st, "BERT", tt.lang)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsUserError(err))
			assert.Len(t, f.gen.calls, before, "no model call expected")
		})
	}
}

func TestTranslate_TranslatesAbstract(t *testing.T) {
	f := newFixture(t)
	_, _ = f.svc.Search(context.Background(), f.st, "bert")
	_, err := f.svc.Summarize(context.Background(), f.st, "BERT", types.SummaryModerate)
	require.NoError(t, err)

	out, err := f.svc.Translate(context.Background(), f.st, "BERT", "fr")
	require.NoError(t, err)
	assert.Equal(t, "fr(Bidirectional encoders.)", out)
	assert.Contains(t, f.gen.calls, fmt.Sprintf("translate:fr:%d", generate.TranslateSearchMax))

	tr, ok := f.st.Translation("BERT")
	require.True(t, ok)
	assert.Equal(t, out, tr)
}

func TestCite(t *testing.T) {
	f := newFixture(t)
	_, _ = f.svc.Search(context.Background(), f.st, "bert")

	c, err := f.svc.Cite(f.st, "BERT")
	require.NoError(t, err)
	assert.Equal(t, "Devlin. 'BERT'. 2018.", c.Text)
	assert.Equal(t, "http://arxiv.org/pdf/1810.04805v2", c.PDFURL)
	assert.Equal(t, "BERT", c.CSL.Title)

	_, err = f.svc.Cite(f.st, "nope")
	assert.ErrorIs(t, err, ErrPaperNotFound)
}

func TestAsk_DefaultsToFirstResult(t *testing.T) {
	f := newFixture(t)
	f.src.records = append(f.src.records, types.PaperRecord{Title: "GPT", PDFURL: "http://arxiv.org/pdf/2005.14165v4"})
	_, err := f.svc.Search(context.Background(), f.st, "language models")
	require.NoError(t, err)

	turn, err := f.svc.Ask(context.Background(), f.st, "", "what is masked LM?")
	require.NoError(t, err)
	assert.Equal(t, "BERT", turn.Paper)
	assert.Equal(t, []string{"http://arxiv.org/pdf/1810.04805v2"}, f.ext.urls)
}

func TestAsk(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Ask(context.Background(), f.st, "", "what?")
	assert.ErrorIs(t, err, ErrNoPaperSelected)

	_, _ = f.svc.Search(context.Background(), f.st, "bert")

	_, err = f.svc.Ask(context.Background(), f.st, "BERT", "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, f.gen.calls)

	f.st.Select("BERT")
	turn, err := f.svc.Ask(context.Background(), f.st, "", "what is masked LM?")
	require.NoError(t, err)
	assert.Equal(t, "answer from paper body", turn.Answer)
	assert.Equal(t, "BERT", turn.Paper)

	chat := f.st.Chat()
	require.Len(t, chat, 1)
	assert.Equal(t, "what is masked LM?", chat[0].Question)
}

func TestTranslateUpload_EmptySummaryCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, f.st, "mine.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	f.st.SetUploadSummary("", types.SummaryShort)

	out, err := f.svc.TranslateUpload(ctx, f.st, "fr")
	require.NoError(t, err)
	assert.Equal(t, "fr()", out)
	assert.Equal(t, []string{fmt.Sprintf("translate:fr:%d", generate.TranslateUploadMax)}, f.gen.calls)
}

func TestUploadFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SummarizeUpload(ctx, f.st, types.SummaryShort)
	assert.ErrorIs(t, err, ErrNoUpload)
	_, err = f.svc.Upload(ctx, f.st, "empty.pdf", nil)
	assert.ErrorIs(t, err, ErrNoUpload)

	f.ext.text = "uploaded body"
	u, err := f.svc.Upload(ctx, f.st, "mine.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "mine.pdf", u.Filename)

	_, err = f.svc.TranslateUpload(ctx, f.st, "de")
	assert.ErrorIs(t, err, ErrNotSummarized)

	summary, err := f.svc.SummarizeUpload(ctx, f.st, types.SummaryDetailed)
	require.NoError(t, err)
	assert.Equal(t, "summary of uploaded body", summary)

	_, err = f.svc.TranslateUpload(ctx, f.st, "en")
	assert.ErrorIs(t, err, ErrEnglishTarget)

	out, err := f.svc.TranslateUpload(ctx, f.st, "de")
	require.NoError(t, err)
	assert.Equal(t, "de(summary of uploaded body)", out)
	assert.Contains(t, f.gen.calls, fmt.Sprintf("translate:de:%d", generate.TranslateUploadMax))

	turn, err := f.svc.AskUpload(ctx, f.st, "main idea?")
	require.NoError(t, err)
	assert.Equal(t, session.UploadTitle, turn.Paper)
	assert.Len(t, f.st.Chat(), 1)
}

func TestModelFailureIsNotUserError(t *testing.T) {
	f := newFixture(t)
	_, _ = f.svc.Search(context.Background(), f.st, "bert")
	f.gen.err = errors.New("503 model loading")

	_, err := f.svc.Summarize(context.Background(), f.st, "BERT", types.SummaryShort)
	require.Error(t, err)
	assert.False(t, IsUserError(err))
}

func TestFetch(t *testing.T) {
	f := newFixture(t)
	f.ext.text = "fetched body"

	u, err := f.svc.Fetch(context.Background(), f.st, "https://arxiv.org/pdf/2301.07041")
	require.NoError(t, err)
	assert.Equal(t, "https://arxiv.org/pdf/2301.07041", u.Filename)

	summary, err := f.svc.SummarizeUpload(context.Background(), f.st, types.SummaryShort)
	require.NoError(t, err)
	assert.Equal(t, "summary of fetched body", summary)
}

func TestTranslateText(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.TranslateText(context.Background(), "Hello", "")
	assert.ErrorIs(t, err, ErrEnglishTarget)
	assert.Empty(t, f.gen.calls)

	out, err := f.svc.TranslateText(context.Background(), "Hello", "IT")
	require.NoError(t, err)
	assert.Equal(t, "it(Hello)", out)
}
