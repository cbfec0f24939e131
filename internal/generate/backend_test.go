// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curioquest/pkg/types"
)

func TestHuggingFaceBackend_Generate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/google/flan-t5-large", r.URL.Path)
		assert.Equal(t, "Bearer hf-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"generated_text":"a short summary"}]`))
	}))
	defer srv.Close()

	orig := huggingFaceAPIBase
	huggingFaceAPIBase = srv.URL
	defer func() { huggingFaceAPIBase = orig }()

	b := NewHuggingFaceBackend(types.ModelConfig{APIKey: "hf-key"})
	out, err := b.Generate(context.Background(), "summarize: text", Params{
		MinLength: 50, MaxLength: 500, NumBeams: 4, LengthPenalty: 2.0, EarlyStopping: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "a short summary", out)

	assert.Equal(t, "summarize: text", got["inputs"])
	params := got["parameters"].(map[string]any)
	assert.EqualValues(t, 50, params["min_length"])
	assert.EqualValues(t, 500, params["max_length"])
	assert.EqualValues(t, 4, params["num_beams"])
	assert.EqualValues(t, 2.0, params["length_penalty"])
	assert.Equal(t, true, params["early_stopping"])
	assert.Equal(t, true, got["options"].(map[string]any)["wait_for_model"])
}

func TestHuggingFaceBackend_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"loading", http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`, "currently loading"},
		{"plain failure", http.StatusInternalServerError, `boom`, "boom"},
		{"error object on 200", http.StatusOK, `{"error":"bad input"}`, "bad input"},
		{"empty list", http.StatusOK, `[]`, "no outputs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			b := NewHuggingFaceBackend(types.ModelConfig{BaseURL: srv.URL, Model: "t5-small"})
			_, err := b.Generate(context.Background(), "p", Params{MaxLength: 10})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClaudeBackend_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req claudeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1024, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Hallo"}]}`))
	}))
	defer srv.Close()

	orig := claudeAPIBase
	claudeAPIBase = srv.URL
	defer func() { claudeAPIBase = orig }()

	b := NewClaudeBackend(types.ModelConfig{APIKey: "sk-test"})
	out, err := b.Generate(context.Background(), "Translate to de: Hello.", Params{MaxLength: 1024})
	require.NoError(t, err)
	assert.Equal(t, "Hallo", out)
}

func TestClaudeBackend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	b := NewClaudeBackend(types.ModelConfig{APIKey: "bad", BaseURL: srv.URL})
	_, err := b.Generate(context.Background(), "p", Params{MaxLength: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(types.ModelConfig{})
	require.NoError(t, err)
	assert.Equal(t, "huggingface", b.Name())

	_, err = NewBackend(types.ModelConfig{Backend: types.ModelClaude})
	assert.Error(t, err)

	b, err = NewBackend(types.ModelConfig{Backend: types.ModelClaude, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "claude", b.Name())

	_, err = NewBackend(types.ModelConfig{Backend: "local"})
	assert.Error(t, err)
}
