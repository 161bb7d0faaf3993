package mock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"terrytube/pkg/personality"
	"terrytube/pkg/speech"
)

type TTSConfig struct {
	Err error
}

// TTS writes a tiny placeholder file instead of calling a vendor API.
type TTS struct {
	cfg   TTSConfig
	mu    sync.Mutex
	calls int
}

func NewTTS(cfg TTSConfig) *TTS {
	return &TTS{cfg: cfg}
}

func (t *TTS) Name() string { return "mock_tts" }

func (t *TTS) Synthesize(ctx context.Context, text string, voice personality.Voice, outDir string) (string, error) {
	if t.cfg.Err != nil {
		return "", t.cfg.Err
	}
	t.mu.Lock()
	t.calls++
	n := t.calls
	t.mu.Unlock()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, fmt.Sprintf("mock_tts_%d_%d.mp3", time.Now().Unix(), n))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (t *TTS) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Player records play requests without touching an audio device.
type Player struct {
	mu     sync.Mutex
	played []string
}

func NewPlayer() *Player { return &Player{} }

func (p *Player) Play(ctx context.Context, audioPath string) error {
	p.mu.Lock()
	p.played = append(p.played, audioPath)
	p.mu.Unlock()
	return nil
}

func (p *Player) Played() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.played))
	copy(out, p.played)
	return out
}

// Speaker records fallback utterances.
type Speaker struct {
	mu     sync.Mutex
	spoken []string
}

func NewSpeaker() *Speaker { return &Speaker{} }

func (s *Speaker) Say(ctx context.Context, text string) error {
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	s.mu.Unlock()
	return nil
}

func (s *Speaker) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.spoken))
	copy(out, s.spoken)
	return out
}

var (
	_ speech.Synthesizer     = (*TTS)(nil)
	_ speech.Player          = (*Player)(nil)
	_ speech.FallbackSpeaker = (*Speaker)(nil)
)
