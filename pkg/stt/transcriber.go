// Package stt defines the transcription boundary. An empty transcript means
// the customer said nothing; an error means the transcription pipeline
// itself failed. The two are handled very differently upstream: silence is
// fed to the model as a legitimate empty turn, a failure prompts a retry.
package stt

import "context"

type Transcriber interface {
	Name() string
	// Transcribe converts a recorded audio file to text. Returns "" with a
	// nil error for a silent recording.
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
