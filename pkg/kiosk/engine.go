package kiosk

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"terrytube/pkg/artifacts"
	"terrytube/pkg/convo"
	"terrytube/pkg/errorsx"
	"terrytube/pkg/input"
	"terrytube/pkg/logging"
	"terrytube/pkg/metrics"
	"terrytube/pkg/orchestrator"
	"terrytube/pkg/personality"
	"terrytube/pkg/providers/say"
	"terrytube/pkg/responder"
	"terrytube/pkg/sink"
	"terrytube/pkg/speech"
	"terrytube/pkg/stt"
	"terrytube/pkg/web"
)

// Engine wires config, providers and the orchestrator into a running kiosk.
// It is the controller behind both the web UI and the terminal loop.
type Engine struct {
	cfg        Config
	logger     *slog.Logger
	personas   *personality.Registry
	session    *convo.Session
	orch       *orchestrator.Orchestrator
	speaker    *speech.Generator
	cache      *speech.Cache
	llm        *responder.Generator
	transcribe stt.Transcriber
	recorder   *input.Recorder
	store      *artifacts.Store
	webState   *web.State
	webServer  *web.Server
	terminal   *sink.Terminal
	observer   *metrics.AsyncObserver
	metricsF   *os.File

	// started flips once a persona has been chosen and the first greeting
	// spoken. Input before that is rejected.
	started atomic.Bool
	webSink bool
}

func NewEngine(cfg Config, registry *ProviderRegistry, base *slog.Logger) (*Engine, error) {
	if base == nil {
		base = slog.Default()
	}
	e := &Engine{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(base, "engine"),
		personas: personality.Builtin(),
		webSink:  strings.EqualFold(cfg.Mode, "web"),
	}

	adapter, err := registry.BuildLLM(cfg.Vendors.LLM)
	if err != nil {
		return nil, fmt.Errorf("build llm provider: %w", err)
	}
	synth, err := registry.BuildTTS(cfg.Vendors.TTS)
	if err != nil {
		return nil, fmt.Errorf("build tts provider: %w", err)
	}
	e.transcribe, err = registry.BuildSTT(cfg.Vendors.STT)
	if err != nil {
		return nil, fmt.Errorf("build stt provider: %w", err)
	}

	e.cache, err = speech.NewCache(
		cfg.Speech.CacheDir,
		int64(cfg.Speech.CacheMaxMB)*1024*1024,
		time.Duration(cfg.Speech.CacheMaxAgeHours)*time.Hour,
		base,
	)
	if err != nil {
		return nil, fmt.Errorf("open speech cache: %w", err)
	}

	var fallback speech.FallbackSpeaker
	if cfg.Speech.FallbackEnabled {
		fallback = say.NewSpeaker()
	}
	e.speaker = speech.NewGenerator(synth, say.NewPlayer(), fallback, e.cache, base)

	// Greetings are spoken before any session folder exists; until then
	// synthesized audio lands in the recordings root.
	e.speaker.SetOutputDir(cfg.Recording.Dir)

	e.llm = responder.NewGenerator(adapter, time.Duration(cfg.Conversation.LLMTimeoutSec)*time.Second, base)
	e.store = artifacts.NewStore(cfg.Recording.Dir)
	e.recorder = input.NewRecorder(input.Config{
		MaxDuration: time.Duration(cfg.Recording.MaxDurationSec) * time.Second,
		SampleRate:  cfg.Recording.SampleRate,
	}, base)

	persona, selected := e.personas.Get(cfg.Personality)
	if !selected {
		persona = e.personas.Default()
	}
	e.session = convo.NewSession(persona, e.store)

	var out sink.Sink
	if e.webSink {
		options := make([]web.PersonaOption, 0)
		for _, entry := range e.personas.List() {
			options = append(options, web.PersonaOption{Key: entry.Key, Name: entry.Name})
		}
		e.webState = web.NewState(options)
		e.webServer = web.NewServer(cfg.Web, e.webState, e, base)
		out = e.webState
	} else {
		e.terminal = sink.NewTerminal()
		out = e.terminal
	}
	out.SetPersonality(persona, selected)

	e.orch = orchestrator.New(e.session, e.llm, e.speaker, out, orchestrator.Config{
		EndDelay: time.Duration(cfg.Conversation.EndDelaySec) * time.Second,
		AudioDir: cfg.Recording.Dir,
	}, base)

	if cfg.Observability.MetricsPath != "" {
		f, err := os.OpenFile(cfg.Observability.MetricsPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open metrics file: %w", err)
		}
		e.metricsF = f
		e.observer = metrics.NewAsyncObserver(metrics.NewJSONLObserver(f), 256)
		e.orch.SetObserver(e.observer)
		e.speaker.SetObserver(e.observer)
	}

	return e, nil
}

// Run starts background housekeeping and the chosen front end, then blocks
// until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if purged, err := e.store.Purge(time.Duration(e.cfg.Recording.RetentionHours) * time.Hour); err != nil {
		e.logger.Warn("startup purge failed", slog.String("error", err.Error()))
	} else if purged > 0 {
		e.logger.Info("purged old session folders", slog.Int("count", purged))
	}
	e.cache.Sweep()
	e.cache.StartSweeper(ctx, time.Duration(e.cfg.Speech.SweepIntervalMin)*time.Minute)

	if err := e.llm.Probe(ctx); err != nil {
		return fmt.Errorf("language model unavailable: %w", err)
	}

	if e.webServer != nil {
		if err := e.webServer.Start(ctx); err != nil {
			return err
		}
		// With a persona fixed up front there is nothing to pick; greet
		// immediately. Otherwise the conversation waits for the browser's
		// persona selection.
		if _, ok := e.personas.Get(e.cfg.Personality); ok {
			e.begin(ctx)
		}
		<-ctx.Done()
		return nil
	}

	e.begin(ctx)
	e.terminalLoop(ctx)
	return nil
}

func (e *Engine) begin(ctx context.Context) {
	if e.started.CompareAndSwap(false, true) {
		if err := e.orch.StartConversation(ctx); err != nil {
			e.logger.Warn("start conversation failed", slog.String("error", err.Error()))
		}
	}
}

// terminalLoop reads typed turns from stdin until EOF or shutdown.
func (e *Engine) terminalLoop(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if err := e.SendText(ctx, line); err != nil {
				e.logger.Warn("turn failed", slog.String("error", err.Error()))
			}
		}
	}
}

// StartRecording begins push-to-talk capture into the session folder.
func (e *Engine) StartRecording() error {
	if !e.started.Load() {
		return errorsx.New("conversation not started", errorsx.ReasonInputRejected)
	}
	dir := e.orch.PrepareSession()
	if dir == "" {
		dir = e.store.Root()
	}
	if _, err := e.recorder.Start(dir); err != nil {
		return err
	}
	if e.webState != nil {
		e.webState.SetRecording(true)
	}
	return nil
}

// StopRecording ends capture and runs the turn on the recorded audio.
func (e *Engine) StopRecording(ctx context.Context) error {
	if e.webState != nil {
		defer e.webState.SetRecording(false)
	}
	path, err := e.recorder.Stop()
	if err != nil {
		return err
	}
	return e.orch.SubmitRecording(ctx, e.transcribe, path)
}

// SendText runs a typed turn.
func (e *Engine) SendText(ctx context.Context, text string) error {
	if !e.started.Load() {
		return errorsx.New("conversation not started", errorsx.ReasonInputRejected)
	}
	return e.orch.SubmitText(ctx, text)
}

// SelectPersonality switches persona, starting the conversation if this is
// the first selection.
func (e *Engine) SelectPersonality(ctx context.Context, key string) error {
	persona, ok := e.personas.Get(key)
	if !ok {
		return fmt.Errorf("unknown personality: %s", key)
	}
	if e.started.CompareAndSwap(false, true) {
		e.session.SetPersonality(persona)
		e.speaker.SetPersonality(persona)
		if e.webState != nil {
			e.webState.SetPersonality(persona, true)
		}
		return e.orch.StartConversation(ctx)
	}
	return e.orch.SwitchPersonality(ctx, persona, true)
}

// Drain shuts the engine down in order: stop accepting input, stop the web
// server, then flush metrics.
func (e *Engine) Drain() error {
	e.orch.Stop()
	if e.recorder.Recording() {
		_, _ = e.recorder.Stop()
	}
	if e.webServer != nil {
		_ = e.webServer.Stop()
	}
	if e.observer != nil {
		e.observer.Close()
	}
	if e.metricsF != nil {
		_ = e.metricsF.Close()
	}
	return nil
}

// Info reports backend availability for the --info flag.
func (e *Engine) Info(ctx context.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "llm provider:  %s", e.cfg.Vendors.LLM.Provider)
	if err := e.llm.Probe(ctx); err != nil {
		fmt.Fprintf(&b, " (unavailable: %v)\n", err)
	} else {
		b.WriteString(" (available)\n")
	}
	fmt.Fprintf(&b, "tts provider:  %s\n", e.cfg.Vendors.TTS.Provider)
	fmt.Fprintf(&b, "stt provider:  %s\n", e.cfg.Vendors.STT.Provider)
	fmt.Fprintf(&b, "personalities: ")
	for i, entry := range e.personas.List() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(entry.Key)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "cache entries: %d\n", e.cache.Len())
	return b.String()
}

var _ web.Controller = (*Engine)(nil)
