// Package speech turns assistant text into played-back audio: a vendor
// synthesizer, a local player, a content-addressed cache and a fallback OS
// voice, behind one Speak call.
package speech

import (
	"context"

	"terrytube/pkg/personality"
)

// Synthesizer renders text to an audio file using a persona's voice
// settings and returns the file path.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string, voice personality.Voice, outDir string) (string, error)
}

// Player plays a synthesized audio file to the kiosk speaker, blocking
// until playback finishes.
type Player interface {
	Play(ctx context.Context, audioPath string) error
}

// FallbackSpeaker is the always-available voice of last resort (an OS
// built-in synthesizer). It speaks directly, without producing a file.
type FallbackSpeaker interface {
	Say(ctx context.Context, text string) error
}
