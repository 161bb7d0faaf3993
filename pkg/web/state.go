// Package web serves the kiosk's browser UI: a chat view over a websocket
// that mirrors conversation state and carries the customer's push-to-talk
// and text input.
package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"terrytube/pkg/personality"
	"terrytube/pkg/sink"
)

// Message is one chat bubble. Pending messages are held back from
// snapshots until the matching audio starts playing.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	IsAI      bool      `json:"is_ai"`
	Timestamp time.Time `json:"timestamp"`

	pending bool
}

// PersonalityInfo is the persona summary shown in the UI header.
type PersonalityInfo struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	ShortName      string `json:"short_name"`
	SelectedByUser bool   `json:"selected_by_user"`
}

// Snapshot is the full UI state sent to every connected browser.
type Snapshot struct {
	Messages           []Message       `json:"messages"`
	Status             string          `json:"status"`
	GeneratingResponse bool            `json:"generating_response"`
	GeneratingAudio    bool            `json:"generating_audio"`
	BeerDispensed      bool            `json:"beer_dispensed"`
	Recording          bool            `json:"recording"`
	Personality        PersonalityInfo `json:"personality"`
	Personalities      []PersonaOption `json:"personalities"`
}

// PersonaOption is one entry in the persona picker.
type PersonaOption struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// State is the sink implementation behind the web UI. Every mutation
// produces a fresh snapshot pushed to all clients through the onChange
// hook.
type State struct {
	mu sync.Mutex

	messages           []Message
	status             string
	generatingResponse bool
	generatingAudio    bool
	beerDispensed      bool
	recording          bool
	persona            PersonalityInfo
	options            []PersonaOption

	onChange func(Snapshot)
	now      func() time.Time
}

func NewState(options []PersonaOption) *State {
	return &State{options: options, now: time.Now}
}

// SetOnChange registers the broadcast hook. Must be set before the state is
// shared with the orchestrator.
func (s *State) SetOnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetRecording flips the push-to-talk indicator.
func (s *State) SetRecording(on bool) {
	s.mu.Lock()
	s.recording = on
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *State) SetStatus(text string) {
	s.mu.Lock()
	s.status = text
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *State) AddMessage(sender, text string, isAI bool) {
	s.mu.Lock()
	s.messages = append(s.messages, Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		IsAI:      isAI,
		Timestamp: s.now(),
	})
	s.notifyLocked()
	s.mu.Unlock()
}

// AddPendingMessage stores a message that snapshots omit until
// RevealMessage is called with the returned id.
func (s *State) AddPendingMessage(sender, text string, isAI bool) string {
	s.mu.Lock()
	id := uuid.NewString()
	s.messages = append(s.messages, Message{
		ID:        id,
		Sender:    sender,
		Text:      text,
		IsAI:      isAI,
		Timestamp: s.now(),
		pending:   true,
	})
	s.mu.Unlock()
	return id
}

func (s *State) RevealMessage(id string) {
	s.mu.Lock()
	for i := range s.messages {
		if s.messages[i].ID == id && s.messages[i].pending {
			s.messages[i].pending = false
			s.messages[i].Timestamp = s.now()
			s.notifyLocked()
			break
		}
	}
	s.mu.Unlock()
}

func (s *State) SetGeneratingResponse(on bool) {
	s.mu.Lock()
	s.generatingResponse = on
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *State) SetGeneratingAudio(on bool) {
	s.mu.Lock()
	s.generatingAudio = on
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *State) NotifyBeerDispensed() {
	s.mu.Lock()
	s.beerDispensed = true
	s.notifyLocked()
	s.mu.Unlock()
}

// ClearMessages wipes the chat for the next customer, including the
// dispense banner.
func (s *State) ClearMessages() {
	s.mu.Lock()
	s.messages = nil
	s.beerDispensed = false
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *State) SetPersonality(p personality.Personality, selectedByUser bool) {
	s.mu.Lock()
	s.persona = PersonalityInfo{
		Key:            p.Key,
		Name:           p.Name,
		ShortName:      p.ShortName,
		SelectedByUser: selectedByUser,
	}
	s.notifyLocked()
	s.mu.Unlock()
}

// Snapshot returns the client-visible state. Pending messages are omitted
// so unspoken text never reaches the browser ahead of its audio.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	msgs := make([]Message, 0, len(s.messages))
	for _, m := range s.messages {
		if m.pending {
			continue
		}
		msgs = append(msgs, m)
	}
	return Snapshot{
		Messages:           msgs,
		Status:             s.status,
		GeneratingResponse: s.generatingResponse,
		GeneratingAudio:    s.generatingAudio,
		BeerDispensed:      s.beerDispensed,
		Recording:          s.recording,
		Personality:        s.persona,
		Personalities:      s.options,
	}
}

func (s *State) notifyLocked() {
	if s.onChange != nil {
		s.onChange(s.snapshotLocked())
	}
}

var _ sink.Sink = (*State)(nil)
