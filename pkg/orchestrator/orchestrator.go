// Package orchestrator drives the kiosk conversation: greeting, three
// question/answer exchanges, the beer-dispense trigger, farewell detection
// and reset, coordinating generation and speech so the UI always sees
// consistent state.
package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"terrytube/pkg/convo"
	"terrytube/pkg/errorsx"
	"terrytube/pkg/logging"
	"terrytube/pkg/metrics"
	"terrytube/pkg/personality"
	"terrytube/pkg/sink"
	"terrytube/pkg/stt"
)

// Status strings pushed to the presentation sink.
const (
	StatusReady             = "Ready to serve beer!"
	StatusTranscribing      = "Transcribing your speech..."
	StatusBeerDispensed     = "🍺 BEER DISPENSED! 🍺"
	StatusConversationEnded = "Conversation ended - Ready for next customer"
	StatusRetryInput        = "Failed to understand - please try again"
	StatusError             = "Error - please try again"
)

const recoveryPrefix = "Sorry about that. Let's start over. "

// speakerName is how the kiosk signs its own messages.
const speakerName = "Terry"

// ResponseGenerator produces the next assistant turn.
type ResponseGenerator interface {
	Generate(ctx context.Context, p personality.Personality, history []convo.Turn, questionCount int) (string, error)
}

// Speaker voices assistant text, firing the callback right before playback.
type Speaker interface {
	SpeakWithCallback(ctx context.Context, text string, onPlaybackStart func()) error
	SetPersonality(p personality.Personality)
	SetOutputDir(dir string)
}

// Config tunes orchestrator behavior.
type Config struct {
	// EndDelay is the pause between farewell and the next greeting.
	EndDelay time.Duration
	// AudioDir receives greeting audio synthesized before a session folder
	// exists, so a fresh customer's greeting never lands in the previous
	// customer's folder.
	AudioDir string
}

// Orchestrator owns one session at a time. Exactly one user-triggered turn
// may be in flight; a second input arriving mid-turn is rejected rather
// than interleaved, because history and the question counter are not
// reentrant.
type Orchestrator struct {
	session   *convo.Session
	responses ResponseGenerator
	speaker   Speaker
	out       sink.Sink
	fsm       *stateMachine
	observer  metrics.Observer
	logger    *slog.Logger
	cfg       Config

	mu       sync.Mutex
	busy     bool
	endTimer *time.Timer
}

func New(session *convo.Session, responses ResponseGenerator, speaker Speaker, out sink.Sink, cfg Config, base *slog.Logger) *Orchestrator {
	if cfg.EndDelay <= 0 {
		cfg.EndDelay = 3 * time.Second
	}
	if base == nil {
		base = slog.Default()
	}
	o := &Orchestrator{
		session:   session,
		responses: responses,
		speaker:   speaker,
		out:       out,
		fsm:       newStateMachine(),
		observer:  metrics.NoopObserver{},
		logger:    logging.NewComponentLogger(base, "orchestrator"),
		cfg:       cfg,
	}
	o.fsm.AddListener(transitionLogger{logger: o.logger})
	o.speaker.SetPersonality(session.Personality())
	return o
}

// SetObserver wires a metrics sink for turn latency events.
func (o *Orchestrator) SetObserver(obs metrics.Observer) {
	if obs != nil {
		o.observer = obs
	}
}

// State reports the current conversation state.
func (o *Orchestrator) State() State {
	return o.fsm.State()
}

// AddStateListener registers a listener for conversation state changes.
func (o *Orchestrator) AddStateListener(l StateListener) {
	o.fsm.AddListener(l)
}

// StartConversation resets the session and greets the next customer.
// Returns input_rejected if a turn is in flight.
func (o *Orchestrator) StartConversation(ctx context.Context) error {
	if err := o.beginTurn(); err != nil {
		return err
	}
	defer o.endTurn()

	o.cancelRegreet()
	o.session.Start()
	_ = o.fsm.Transition(StateGreeting, "new customer")
	o.greet(ctx, o.session.Personality().Greeting)
	return nil
}

// Stop cancels any pending re-greet. Mid-turn work is not cancelled; the
// in-flight turn runs to completion.
func (o *Orchestrator) Stop() {
	o.cancelRegreet()
}

// SwitchPersonality rebinds the persona and restarts the conversation from
// the greeting. Switching mid-use deliberately resets the session, but a
// switch arriving while a turn is in flight is rejected with input_rejected:
// resetting under an active generation would let the old persona's response
// land in the fresh session.
func (o *Orchestrator) SwitchPersonality(ctx context.Context, p personality.Personality, selectedByUser bool) error {
	if err := o.beginTurn(); err != nil {
		return err
	}
	defer o.endTurn()

	o.cancelRegreet()
	o.session.SetPersonality(p)
	o.speaker.SetPersonality(p)
	o.out.SetPersonality(p, selectedByUser)
	o.out.ClearMessages()
	o.session.Start()
	_ = o.fsm.Transition(StateGreeting, "personality switch")
	o.greet(ctx, p.Greeting)
	return nil
}

// PrepareSession makes sure the session folder exists ahead of a recording,
// so the audio file lands in the right place.
func (o *Orchestrator) PrepareSession() string {
	folder := o.session.PrepareFolder()
	if folder != "" {
		o.speaker.SetOutputDir(folder)
	}
	return folder
}

// SubmitText runs one turn for a typed message. Returns input_rejected if a
// turn is already in flight.
func (o *Orchestrator) SubmitText(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if err := o.beginTurn(); err != nil {
		return err
	}
	defer o.endTurn()

	o.out.AddMessage("You", text, false)
	o.session.AddUserMessage(text)
	return o.generateAndRespond(ctx)
}

// SubmitRecording transcribes a recorded utterance and runs one turn.
// An empty transcript is a legitimate silent turn: the UI shows "silence"
// and the model receives the empty string. A transcription error is a
// technical failure: the customer is asked to try again and the session is
// left untouched.
func (o *Orchestrator) SubmitRecording(ctx context.Context, transcriber stt.Transcriber, audioPath string) error {
	if err := o.beginTurn(); err != nil {
		return err
	}
	defer o.endTurn()

	o.out.SetStatus(StatusTranscribing)
	text, err := transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		o.out.SetStatus(StatusRetryInput)
		o.logger.Warn("transcription failed", slog.String("error", err.Error()))
		return errorsx.Wrap(err, errorsx.ReasonSTTTranscribe)
	}

	display := text
	if text == "" {
		display = "silence"
	}
	o.out.AddMessage("You", display, false)
	o.session.AddUserMessage(text)
	return o.generateAndRespond(ctx)
}

// generateAndRespond runs the Generating and Speaking states for the
// just-appended user turn.
func (o *Orchestrator) generateAndRespond(ctx context.Context) error {
	if err := o.fsm.Transition(StateGenerating, "user input received"); err != nil {
		return err
	}
	if folder := o.session.Folder(); folder != "" {
		o.speaker.SetOutputDir(folder)
	}

	persona := o.session.Personality()
	questionNumber := o.session.QuestionCount() + 1
	o.out.SetGeneratingResponse(true)

	started := time.Now()
	raw, err := o.responses.Generate(ctx, persona, o.session.History(), questionNumber)
	if err != nil {
		// No retry: a half-formed exchange with no clean resume is worse
		// than a visible restart, so the customer starts over.
		o.out.SetGeneratingResponse(false)
		o.recover(ctx, persona)
		return nil
	}
	o.observer.RecordEvent(metrics.Latency("llm_generate", started, map[string]string{
		"personality": persona.Key,
	}))

	o.session.AddAssistantTurn(raw)

	if strings.Contains(raw, personality.DispenseTrigger) && o.session.MarkBeerDispensed() {
		o.logger.Info("beer dispensed", slog.Int("question_count", o.session.QuestionCount()))
		o.out.NotifyBeerDispensed()
		o.out.SetStatus(StatusBeerDispensed)
	}

	if err := o.fsm.Transition(StateSpeaking, "response generated"); err != nil {
		return err
	}

	// Models are told not to use emphasis markup; strip it anyway rather
	// than reading asterisks aloud.
	cleaned := strings.ReplaceAll(raw, "*", "")
	o.out.SetGeneratingResponse(false)
	o.out.SetGeneratingAudio(true)
	o.sayRevealed(ctx, cleaned)

	// The exit phrase must trail the trimmed, un-stripped response; a
	// mid-sentence echo of it must not end the conversation.
	if strings.HasSuffix(strings.TrimSpace(raw), persona.ExitPhrase) {
		o.endConversation(ctx)
		return nil
	}
	return o.fsm.Transition(StateAwaitingInput, "turn complete")
}

// greet voices a greeting, revealing the text only once its audio starts.
// Greetings always precede a session folder, so audio goes to AudioDir.
func (o *Orchestrator) greet(ctx context.Context, text string) {
	if o.cfg.AudioDir != "" {
		o.speaker.SetOutputDir(o.cfg.AudioDir)
	}
	o.out.SetStatus(StatusReady)
	o.out.SetGeneratingAudio(true)
	o.sayRevealed(ctx, text)
	_ = o.fsm.Transition(StateAwaitingInput, "greeting delivered")
}

// sayRevealed registers a pending message, speaks the text and reveals the
// message atomically with playback start. The generating-audio indicator is
// cleared in the same callback so indicator and message never flash out of
// order. Anything going wrong still reveals the message: the UI must not be
// left stuck on a spinner.
func (o *Orchestrator) sayRevealed(ctx context.Context, text string) {
	id := o.out.AddPendingMessage(speakerName, text, true)
	revealed := false
	err := o.speaker.SpeakWithCallback(ctx, text, func() {
		o.out.RevealMessage(id)
		o.out.SetGeneratingAudio(false)
		revealed = true
	})
	if !revealed {
		o.out.RevealMessage(id)
		o.out.SetGeneratingAudio(false)
	}
	if err != nil {
		o.logger.Warn("speech failed", slog.String("error", err.Error()))
	}
}

// recover performs the full-reset recovery for an unavailable model: wipe
// the session, apologize, greet again.
func (o *Orchestrator) recover(ctx context.Context, persona personality.Personality) {
	o.logger.Warn("model unavailable, restarting conversation")
	o.out.SetStatus(StatusError)
	o.session.Reset()
	o.session.Start()
	_ = o.fsm.Transition(StateGreeting, "model unavailable")
	o.greet(ctx, recoveryPrefix+persona.Greeting)
}

// endConversation runs the farewell: notify the sink, pause, then reset for
// the next customer.
func (o *Orchestrator) endConversation(ctx context.Context) {
	_ = o.fsm.Transition(StateEnded, "exit phrase detected")
	o.out.SetStatus(StatusConversationEnded)
	o.session.EndActive()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.endTimer = time.AfterFunc(o.cfg.EndDelay, func() {
		o.out.ClearMessages()
		o.session.Start()
		_ = o.fsm.Transition(StateGreeting, "next customer")
		o.greet(ctx, o.session.Personality().Greeting)
	})
}

func (o *Orchestrator) cancelRegreet() {
	o.mu.Lock()
	if o.endTimer != nil {
		o.endTimer.Stop()
		o.endTimer = nil
	}
	o.mu.Unlock()
}

func (o *Orchestrator) beginTurn() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return errorsx.New("a turn is already in flight", errorsx.ReasonInputRejected)
	}
	o.busy = true
	return nil
}

func (o *Orchestrator) endTurn() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

type transitionLogger struct {
	logger *slog.Logger
}

func (t transitionLogger) OnStateChange(ev StateChange) {
	t.logger.Debug("state transition",
		slog.String("from", ev.FromState.String()),
		slog.String("to", ev.ToState.String()),
		slog.String("reason", ev.Reason))
}
