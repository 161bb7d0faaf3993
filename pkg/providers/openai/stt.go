package openai

import (
	"context"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"terrytube/pkg/stt"
)

type STTConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// STT transcribes recorded audio files with Whisper. An empty transcript is
// returned as the empty string, not an error.
type STT struct {
	client *goopenai.Client
	model  string
}

func NewSTT(cfg STTConfig) *STT {
	config := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = goopenai.Whisper1
	}
	return &STT{client: goopenai.NewClientWithConfig(config), model: model}
}

func (s *STT) Name() string { return "openai_whisper" }

func (s *STT) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := s.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    s.model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

var _ stt.Transcriber = (*STT)(nil)
