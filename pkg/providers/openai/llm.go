// Package openai adapts the OpenAI API to the kiosk's LLM, TTS and STT
// contracts.
package openai

import (
	"context"
	"errors"

	goopenai "github.com/sashabaranov/go-openai"

	"terrytube/pkg/llm"
)

type LLMConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// LLM is a chat-completion adapter. One request per conversation turn.
type LLM struct {
	client *goopenai.Client
	model  string
}

func NewLLM(cfg LLMConfig) *LLM {
	config := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = goopenai.GPT4oMini
	}
	return &LLM{client: goopenai.NewClientWithConfig(config), model: model}
}

func (a *LLM) Name() string { return "openai" }

func (a *LLM) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	var messages []goopenai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := a.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		return llm.Response{}, err
	}
	if len(resp.Choices) == 0 {
		return llm.Response{}, errors.New("openai: no choices in response")
	}
	return llm.Response{
		Text: resp.Choices[0].Message.Content,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

var _ llm.Adapter = (*LLM)(nil)
