package openai

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	goopenai "github.com/sashabaranov/go-openai"

	"terrytube/pkg/errorsx"
	"terrytube/pkg/personality"
	"terrytube/pkg/speech"
)

type TTSConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// TTS renders text to an mp3 file through the OpenAI speech endpoint. The
// persona's voice settings select the voice, speed and delivery
// instructions.
type TTS struct {
	client *goopenai.Client
	model  goopenai.SpeechModel
}

func NewTTS(cfg TTSConfig) *TTS {
	config := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := goopenai.SpeechModel(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	return &TTS{client: goopenai.NewClientWithConfig(config), model: model}
}

func (t *TTS) Name() string { return "openai_tts" }

func (t *TTS) Synthesize(ctx context.Context, text string, voice personality.Voice, outDir string) (string, error) {
	req := goopenai.CreateSpeechRequest{
		Model:          t.model,
		Input:          text,
		Voice:          goopenai.SpeechVoice(voice.VoiceID),
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
	}
	if voice.Speed > 0 {
		req.Speed = voice.Speed
	}
	if voice.Instruction != "" {
		req.Instructions = voice.Instruction
	}

	stream, err := t.client.CreateSpeech(ctx, req)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	defer stream.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	path := filepath.Join(outDir, fmt.Sprintf("tts_%d_%s.mp3", time.Now().Unix(), uuid.NewString()[:8]))
	f, err := os.Create(path)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	if _, err := io.Copy(f, stream); err != nil {
		f.Close()
		os.Remove(path)
		return "", errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	if err := f.Close(); err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	return path, nil
}

var _ speech.Synthesizer = (*TTS)(nil)
