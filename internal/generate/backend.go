// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/pdiddy/curioquest/pkg/types"
)

// NewBackend returns the model backend selected by cfg.Backend.
// An empty backend selects Hugging Face.
func NewBackend(cfg types.ModelConfig) (Backend, error) {
	switch cfg.Backend {
	case "", types.ModelHuggingFace:
		return NewHuggingFaceBackend(cfg), nil
	case types.ModelClaude:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude backend requires an API key (model.api_key or .secrets/anthropic-api-key)")
		}
		return NewClaudeBackend(cfg), nil
	}
	return nil, fmt.Errorf("unknown model backend %q (want huggingface or claude)", cfg.Backend)
}

func newRestyClient(cfg types.HTTPConfig) *resty.Client {
	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.MaxRetries > 0 {
		client.SetRetryCount(cfg.MaxRetries)
		client.AddRetryCondition(func(r *resty.Response, err error) bool {
			return r != nil && r.StatusCode() == 429
		})
	}
	return client
}
