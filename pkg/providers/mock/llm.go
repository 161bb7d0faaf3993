// Package mock provides configurable stand-ins for every vendor provider,
// used in tests and when running the kiosk without API keys.
package mock

import (
	"context"
	"sync"

	"terrytube/pkg/llm"
)

type LLMConfig struct {
	// Responses are returned in order; the last one repeats.
	Responses []string
	Err       error
}

type LLMAdapter struct {
	cfg   LLMConfig
	mu    sync.Mutex
	calls int
}

func NewLLMAdapter(cfg LLMConfig) *LLMAdapter {
	if len(cfg.Responses) == 0 {
		cfg.Responses = []string{"mock response"}
	}
	return &LLMAdapter{cfg: cfg}
}

func (a *LLMAdapter) Name() string { return "mock_llm" }

func (a *LLMAdapter) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	if a.cfg.Err != nil {
		return llm.Response{}, a.cfg.Err
	}
	a.mu.Lock()
	idx := a.calls
	if idx >= len(a.cfg.Responses) {
		idx = len(a.cfg.Responses) - 1
	}
	a.calls++
	a.mu.Unlock()
	return llm.Response{Text: a.cfg.Responses[idx]}, nil
}

// Calls reports how many generations have been requested.
func (a *LLMAdapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

var _ llm.Adapter = (*LLMAdapter)(nil)
