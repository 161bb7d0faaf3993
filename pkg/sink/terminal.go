package sink

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"terrytube/pkg/personality"
)

// Terminal renders the conversation to stdout for kiosk-less runs.
type Terminal struct {
	mu      sync.Mutex
	pending map[string]pendingLine
}

type pendingLine struct {
	sender string
	text   string
}

func NewTerminal() *Terminal {
	return &Terminal{pending: make(map[string]pendingLine)}
}

func (t *Terminal) stamp() string {
	return time.Now().Format("15:04:05")
}

func (t *Terminal) SetStatus(text string) {
	fmt.Printf("[%s] status: %s\n", t.stamp(), text)
}

func (t *Terminal) AddMessage(sender, text string, _ bool) {
	fmt.Printf("[%s] %s: %s\n", t.stamp(), sender, text)
}

func (t *Terminal) AddPendingMessage(sender, text string, _ bool) string {
	id := uuid.NewString()
	t.mu.Lock()
	t.pending[id] = pendingLine{sender: sender, text: text}
	t.mu.Unlock()
	return id
}

func (t *Terminal) RevealMessage(id string) {
	t.mu.Lock()
	line, ok := t.pending[id]
	delete(t.pending, id)
	t.mu.Unlock()
	if ok {
		fmt.Printf("[%s] %s: %s\n", t.stamp(), line.sender, line.text)
	}
}

func (t *Terminal) SetGeneratingResponse(on bool) {
	if on {
		fmt.Printf("[%s] thinking...\n", t.stamp())
	}
}

func (t *Terminal) SetGeneratingAudio(on bool) {
	if on {
		fmt.Printf("[%s] speaking...\n", t.stamp())
	}
}

func (t *Terminal) NotifyBeerDispensed() {
	fmt.Printf("[%s] *** BEER DISPENSED ***\n", t.stamp())
}

func (t *Terminal) ClearMessages() {
	t.mu.Lock()
	t.pending = make(map[string]pendingLine)
	t.mu.Unlock()
	fmt.Printf("[%s] --- ready for the next customer ---\n", t.stamp())
}

func (t *Terminal) SetPersonality(p personality.Personality, _ bool) {
	fmt.Printf("[%s] personality: %s\n", t.stamp(), p.Name)
}

var _ Sink = (*Terminal)(nil)
