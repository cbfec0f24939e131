// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/pdiddy/curioquest/pkg/types"
)

// huggingFaceAPIBase is the hosted inference API root. Package-level var for test substitution.
var huggingFaceAPIBase = "https://api-inference.huggingface.co"

// DefaultHuggingFaceModel is the text-to-text model used when none is configured.
const DefaultHuggingFaceModel = "google/flan-t5-large"

// HuggingFaceBackend calls the Hugging Face inference API for a seq2seq model.
type HuggingFaceBackend struct {
	model   string
	baseURL string
	client  *resty.Client
}

// NewHuggingFaceBackend builds the backend from cfg. The resty client is
// created once and shared across calls.
func NewHuggingFaceBackend(cfg types.ModelConfig) *HuggingFaceBackend {
	model := cfg.Model
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	client := newRestyClient(cfg.HTTPConfig)
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &HuggingFaceBackend{model: model, baseURL: cfg.BaseURL, client: client}
}

// Name returns the backend identifier.
func (h *HuggingFaceBackend) Name() string { return "huggingface" }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	Params
	Truncation string `json:"truncation,omitempty"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfOutput struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// Generate posts the prompt and returns the first generated text.
func (h *HuggingFaceBackend) Generate(ctx context.Context, prompt string, p Params) (string, error) {
	base := h.baseURL
	if base == "" {
		base = huggingFaceAPIBase
	}
	endpoint := strings.TrimRight(base, "/") + "/models/" + h.model

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(hfRequest{
			Inputs:     prompt,
			Parameters: hfParameters{Params: p, Truncation: "only_first"},
			Options:    hfOptions{WaitForModel: true},
		}).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("calling Hugging Face API: %w", err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("Hugging Face API returned %d: %s", resp.StatusCode(), apiErr.Error)
		}
		return "", fmt.Errorf("Hugging Face API returned %d: %s", resp.StatusCode(), string(body))
	}

	var outputs []hfOutput
	if err := json.Unmarshal(body, &outputs); err != nil {
		var apiErr hfError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("Hugging Face API error: %s", apiErr.Error)
		}
		return "", fmt.Errorf("decoding Hugging Face response: %w", err)
	}
	if len(outputs) == 0 {
		return "", fmt.Errorf("Hugging Face API returned no outputs")
	}
	return outputs[0].GeneratedText, nil
}
