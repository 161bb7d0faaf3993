// Package sink defines the presentation boundary the orchestrator pushes
// conversation state to. Implementations render to a web UI or a terminal;
// the orchestrator never learns which.
package sink

import "terrytube/pkg/personality"

// Sink receives status and message updates. Calls arrive from the turn
// pipeline goroutine; implementations must tolerate being called from a
// different goroutine than the one that constructed them.
//
// A pending message is registered but hidden until RevealMessage; the
// orchestrator reveals it when the matching audio starts playing, so text
// never appears ahead of its voice.
type Sink interface {
	SetStatus(text string)
	AddMessage(sender, text string, isAI bool)
	AddPendingMessage(sender, text string, isAI bool) (id string)
	RevealMessage(id string)
	SetGeneratingResponse(on bool)
	SetGeneratingAudio(on bool)
	NotifyBeerDispensed()
	ClearMessages()
	SetPersonality(p personality.Personality, selectedByUser bool)
}
