package mock

import (
	"context"

	"terrytube/pkg/stt"
)

type STTConfig struct {
	Transcript string
	Err        error
}

// STT returns a fixed transcript for every recording.
type STT struct {
	cfg STTConfig
}

func NewSTT(cfg STTConfig) *STT {
	return &STT{cfg: cfg}
}

func (s *STT) Name() string { return "mock_stt" }

func (s *STT) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if s.cfg.Err != nil {
		return "", s.cfg.Err
	}
	return s.cfg.Transcript, nil
}

var _ stt.Transcriber = (*STT)(nil)
