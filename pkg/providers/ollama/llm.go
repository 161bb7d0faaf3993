// Package ollama adapts a local Ollama server to the kiosk's LLM contract.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"terrytube/pkg/llm"
)

type Config struct {
	Model   string
	BaseURL string
}

type Adapter struct {
	Model   string
	BaseURL string
	Client  *http.Client
}

func New(cfg Config) *Adapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Adapter{
		Model:   cfg.Model,
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *Adapter) Name() string { return "ollama" }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (a *Adapter) Generate(ctx context.Context, in llm.Request) (llm.Response, error) {
	body, err := json.Marshal(generateRequest{
		Model:  a.Model,
		Prompt: in.Prompt,
		System: in.System,
		Stream: false,
	})
	if err != nil {
		return llm.Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/api/generate", bytes.NewBuffer(body))
	if err != nil {
		return llm.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client().Do(req)
	if err != nil {
		return llm.Response{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return llm.Response{}, errors.New("ollama: " + string(msg))
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return llm.Response{}, err
	}
	return llm.Response{
		Text: payload.Response,
		Usage: llm.Usage{
			PromptTokens:     payload.PromptEvalCount,
			CompletionTokens: payload.EvalCount,
			TotalTokens:      payload.PromptEvalCount + payload.EvalCount,
		},
	}, nil
}

func (a *Adapter) client() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return http.DefaultClient
}

var _ llm.Adapter = (*Adapter)(nil)
