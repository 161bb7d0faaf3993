package speech

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"terrytube/pkg/errorsx"
	"terrytube/pkg/logging"
	"terrytube/pkg/metrics"
	"terrytube/pkg/personality"
)

// Generator speaks assistant text aloud. Repeated text for the same persona
// is served from the cache without resynthesizing.
//
// The onPlaybackStart callback fires exactly once, immediately before audio
// playback begins and never before synthesis completes. That holds on the
// fallback path too, so callers can rely on it unconditionally.
type Generator struct {
	synth    Synthesizer
	player   Player
	fallback FallbackSpeaker
	cache    *Cache
	observer metrics.Observer
	logger   *slog.Logger

	mu        sync.Mutex
	outDir    string
	persona   personality.Personality
	personaOK bool
}

func NewGenerator(synth Synthesizer, player Player, fallback FallbackSpeaker, cache *Cache, base *slog.Logger) *Generator {
	if base == nil {
		base = slog.Default()
	}
	return &Generator{
		synth:    synth,
		player:   player,
		fallback: fallback,
		cache:    cache,
		observer: metrics.NoopObserver{},
		logger:   logging.NewComponentLogger(base, "speech"),
	}
}

// SetObserver wires a metrics sink for synthesis latency events.
func (g *Generator) SetObserver(obs metrics.Observer) {
	if obs != nil {
		g.observer = obs
	}
}

// SetOutputDir points freshly synthesized audio at the active session
// folder. Empty resets to the synthesizer's default location.
func (g *Generator) SetOutputDir(dir string) {
	g.mu.Lock()
	g.outDir = dir
	g.mu.Unlock()
}

// SetPersonality binds the voice used for subsequent Speak calls.
func (g *Generator) SetPersonality(p personality.Personality) {
	g.mu.Lock()
	g.persona = p
	g.personaOK = true
	g.mu.Unlock()
}

// Speak synthesizes and plays text with no notification hook.
func (g *Generator) Speak(ctx context.Context, text string) error {
	return g.SpeakWithCallback(ctx, text, nil)
}

// SpeakWithCallback synthesizes text (or reuses the cached audio), invokes
// onPlaybackStart, then plays. Synthesis failure does not abort the turn:
// the OS fallback voice speaks instead, with the same callback contract.
func (g *Generator) SpeakWithCallback(ctx context.Context, text string, onPlaybackStart func()) error {
	g.mu.Lock()
	persona := g.persona
	personaOK := g.personaOK
	outDir := g.outDir
	g.mu.Unlock()
	if !personaOK {
		return errorsx.New("no personality bound", errorsx.ReasonTTSSynthesize)
	}

	if g.cache != nil {
		if path, ok := g.cache.Get(text, persona.Key); ok {
			g.logger.Debug("cache hit", slog.String("personality", persona.Key))
			return g.play(ctx, path, onPlaybackStart)
		}
	}

	started := time.Now()
	path, err := g.synth.Synthesize(ctx, text, persona.Voice, outDir)
	if err != nil {
		g.logger.Warn("synthesis failed, using fallback voice",
			slog.String("synthesizer", g.synth.Name()),
			slog.String("error", err.Error()))
		return g.speakFallback(ctx, text, onPlaybackStart)
	}
	g.observer.RecordEvent(metrics.Latency("tts_synthesize", started, map[string]string{
		"synthesizer": g.synth.Name(),
		"personality": persona.Key,
	}))

	if g.cache != nil {
		path = g.cache.Put(text, persona.Key, path)
	}
	return g.play(ctx, path, onPlaybackStart)
}

func (g *Generator) play(ctx context.Context, path string, onPlaybackStart func()) error {
	if onPlaybackStart != nil {
		onPlaybackStart()
	}
	if err := g.player.Play(ctx, path); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonTTSPlayback)
	}
	return nil
}

func (g *Generator) speakFallback(ctx context.Context, text string, onPlaybackStart func()) error {
	if g.fallback == nil {
		return errorsx.New("no fallback voice configured", errorsx.ReasonTTSFallback)
	}
	// The callback still fires before the fallback voice starts.
	if onPlaybackStart != nil {
		onPlaybackStart()
	}
	if err := g.fallback.Say(ctx, text); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonTTSFallback)
	}
	return nil
}
