// Package deepgram adapts the Deepgram prerecorded transcription API to the
// kiosk's STT contract.
package deepgram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"terrytube/pkg/logging"
	"terrytube/pkg/stt"
)

type Config struct {
	APIKey   string
	Model    string
	Language string
}

// Transcriber sends recorded utterance files to Deepgram. A clean response
// with no words means the customer said nothing, which is returned as the
// empty string.
type Transcriber struct {
	cfg    Config
	dg     *api.Client
	logger *slog.Logger
}

func New(cfg Config) *Transcriber {
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	c := client.NewREST(cfg.APIKey, &interfaces.ClientOptions{})
	return &Transcriber{
		cfg:    cfg,
		dg:     api.New(c),
		logger: logging.NewComponentLogger(slog.Default(), "deepgram_stt"),
	}
}

func (t *Transcriber) Name() string { return "deepgram" }

func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       t.cfg.Model,
		Language:    t.cfg.Language,
		SmartFormat: true,
		Punctuate:   true,
	}

	started := time.Now()
	res, err := t.dg.FromFile(ctx, audioPath, options)
	if err != nil {
		return "", err
	}
	if res == nil || res.Results == nil {
		return "", errors.New("deepgram: empty response")
	}
	if len(res.Results.Channels) == 0 || len(res.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}

	transcript := strings.TrimSpace(res.Results.Channels[0].Alternatives[0].Transcript)
	t.logger.Debug("transcription complete",
		slog.Int64("elapsed_ms", time.Since(started).Milliseconds()),
		slog.Int("chars", len(transcript)))
	return transcript, nil
}

var _ stt.Transcriber = (*Transcriber)(nil)
