package convo

import (
	"sync"

	"terrytube/pkg/personality"
)

// FolderProvider lazily creates the on-disk folder grouping one session's
// audio artifacts.
type FolderProvider interface {
	NewSessionFolder() (string, error)
}

// Session holds one customer conversation's mutable state. Exactly one
// session is active at a time; the mutex only guards against the web input
// goroutine and the orchestrator touching it simultaneously.
type Session struct {
	mu sync.Mutex

	persona       personality.Personality
	history       []Turn
	questionCount int
	beerDispensed bool
	active        bool
	sessionFolder string

	folders FolderProvider
}

func NewSession(persona personality.Personality, folders FolderProvider) *Session {
	return &Session{persona: persona, folders: folders}
}

// Start resets all per-conversation state for a new customer.
func (s *Session) Start() {
	s.Reset()
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()
}

// Reset returns the session to its initial state: empty history, zero
// question count, no beer dispensed, no session folder.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.questionCount = 0
	s.beerDispensed = false
	s.active = false
	s.sessionFolder = ""
}

// AddUserMessage appends a Human turn. The empty string is a valid turn and
// means the customer said nothing. The session folder is created on the
// first user turn after a reset.
func (s *Session) AddUserMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Turn{Role: RoleHuman, Text: text})
	s.ensureFolderLocked()
}

// AddAssistantTurn appends an Assistant turn and advances the question
// counter. The counter increments strictly after a successful generation.
func (s *Session) AddAssistantTurn(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Turn{Role: RoleAssistant, Text: text})
	s.questionCount++
}

// PrepareFolder creates the session folder ahead of the first user turn,
// so a recording started before transcription lands in the right place.
func (s *Session) PrepareFolder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureFolderLocked()
	return s.sessionFolder
}

func (s *Session) ensureFolderLocked() {
	if s.sessionFolder != "" || s.folders == nil {
		return
	}
	folder, err := s.folders.NewSessionFolder()
	if err != nil {
		// Folder creation failing must not lose the turn; artifacts land in
		// the recordings root instead.
		return
	}
	s.sessionFolder = folder
}

// MarkBeerDispensed flips the dispense flag. Returns false if the beer was
// already dispensed this session, so the event fires at most once.
func (s *Session) MarkBeerDispensed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.beerDispensed {
		return false
	}
	s.beerDispensed = true
	return true
}

// SetPersonality rebinds the persona. The caller is expected to follow with
// a full reset; a persona switch mid-conversation restarts the session.
func (s *Session) SetPersonality(p personality.Personality) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persona = p
}

func (s *Session) Personality() personality.Personality {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persona
}

// History returns a copy of the turn sequence.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) QuestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionCount
}

func (s *Session) BeerDispensed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beerDispensed
}

func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// EndActive marks the pending-reset window between farewell and the next
// greeting.
func (s *Session) EndActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

func (s *Session) Folder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionFolder
}
