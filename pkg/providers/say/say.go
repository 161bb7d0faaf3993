// Package say shells out to the operating system for audio: playing
// synthesized files and, when the vendor TTS is down, speaking through the
// OS built-in voice.
package say

import (
	"context"
	"errors"
	"os/exec"
	"runtime"

	"terrytube/pkg/errorsx"
	"terrytube/pkg/speech"
)

// Speaker is the voice of last resort. It blocks until the utterance has
// been spoken.
type Speaker struct{}

func NewSpeaker() *Speaker { return &Speaker{} }

func (s *Speaker) Say(ctx context.Context, text string) error {
	var cmd *exec.Cmd
	switch {
	case runtime.GOOS == "darwin":
		cmd = exec.CommandContext(ctx, "say", text)
	case commandExists("espeak"):
		cmd = exec.CommandContext(ctx, "espeak", text)
	case commandExists("spd-say"):
		cmd = exec.CommandContext(ctx, "spd-say", "--wait", text)
	default:
		return errorsx.New("no OS speech command available", errorsx.ReasonTTSFallback)
	}
	if err := cmd.Run(); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonTTSFallback)
	}
	return nil
}

// Player plays an audio file on the kiosk speaker, blocking until playback
// finishes so callers can sequence speech with state changes.
type Player struct{}

func NewPlayer() *Player { return &Player{} }

func (p *Player) Play(ctx context.Context, audioPath string) error {
	cmd, err := playCommand(ctx, audioPath)
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonTTSPlayback)
	}
	if err := cmd.Run(); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonTTSPlayback)
	}
	return nil
}

func playCommand(ctx context.Context, audioPath string) (*exec.Cmd, error) {
	if runtime.GOOS == "darwin" {
		return exec.CommandContext(ctx, "afplay", audioPath), nil
	}
	switch {
	case commandExists("mpg123"):
		return exec.CommandContext(ctx, "mpg123", "-q", audioPath), nil
	case commandExists("ffplay"):
		return exec.CommandContext(ctx, "ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", audioPath), nil
	case commandExists("aplay"):
		return exec.CommandContext(ctx, "aplay", "-q", audioPath), nil
	}
	return nil, errors.New("no audio player command available")
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

var _ speech.Player = (*Player)(nil)
var _ speech.FallbackSpeaker = (*Speaker)(nil)
