package llm

import "context"

// Request is a single-shot completion request: a rendered persona prompt
// acting as the system instruction plus the conversation context.
type Request struct {
	System string
	Prompt string
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Response struct {
	Text  string
	Usage Usage
}

// Adapter is the contract for any chat-completion backend. One call per
// conversation turn; no retry inside the adapter.
type Adapter interface {
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
}
