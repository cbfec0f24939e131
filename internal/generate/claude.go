// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/pdiddy/curioquest/pkg/types"
)

// claudeAPIBase is the Claude API root. Package-level var for test substitution.
var claudeAPIBase = "https://api.anthropic.com/v1"

// DefaultClaudeModel is used when the claude backend has no model configured.
const DefaultClaudeModel = "claude-3-5-haiku-latest"

// ClaudeBackend sends each prompt as a single user message to the Claude Messages API.
type ClaudeBackend struct {
	model   string
	apiKey  string
	baseURL string
	client  *resty.Client
}

// NewClaudeBackend builds the backend from cfg.
func NewClaudeBackend(cfg types.ModelConfig) *ClaudeBackend {
	model := cfg.Model
	if model == "" || strings.Contains(model, "/") {
		model = DefaultClaudeModel
	}
	return &ClaudeBackend{
		model:   model,
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  newRestyClient(cfg.HTTPConfig),
	}
}

// Name returns the backend identifier.
func (c *ClaudeBackend) Name() string { return "claude" }

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate calls the Messages API with max_tokens set to the output bound.
func (c *ClaudeBackend) Generate(ctx context.Context, prompt string, p Params) (string, error) {
	base := c.baseURL
	if base == "" {
		base = claudeAPIBase
	}

	maxTokens := p.MaxLength
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	var cResp claudeResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", c.apiKey).
		SetHeader("anthropic-version", "2023-06-01").
		SetBody(claudeRequest{
			Model:     c.model,
			MaxTokens: maxTokens,
			Messages:  []claudeMessage{{Role: "user", Content: prompt}},
		}).
		SetResult(&cResp).
		Post(strings.TrimRight(base, "/") + "/messages")
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode(), resp.String())
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Claude API response")
}
