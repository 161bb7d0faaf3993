package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"terrytube/pkg/errorsx"
	"terrytube/pkg/personality"
)

type fakeSynth struct {
	mu    sync.Mutex
	calls int
	dir   string
	err   error
}

func (f *fakeSynth) Name() string { return "fake" }

func (f *fakeSynth) Synthesize(_ context.Context, text string, _ personality.Voice, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, "out.wav")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *fakeSynth) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePlayer struct {
	played []string
}

func (f *fakePlayer) Play(_ context.Context, path string) error {
	f.played = append(f.played, path)
	return nil
}

type fakeFallback struct {
	spoken []string
	err    error
}

func (f *fakeFallback) Say(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.spoken = append(f.spoken, text)
	return nil
}

func newTestGenerator(t *testing.T, synth *fakeSynth, fallback FallbackSpeaker) (*Generator, *fakePlayer, *Cache) {
	t.Helper()
	cache, err := NewCache(t.TempDir(), 1<<20, time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}
	player := &fakePlayer{}
	g := NewGenerator(synth, player, fallback, cache, nil)
	g.SetPersonality(personality.Builtin().Default())
	return g, player, cache
}

func TestSpeakCachesByTextAndPersonality(t *testing.T) {
	synth := &fakeSynth{dir: t.TempDir()}
	g, player, _ := newTestGenerator(t, synth, nil)

	if err := g.Speak(context.Background(), "BEER HERE!"); err != nil {
		t.Fatalf("speak: %v", err)
	}
	if err := g.Speak(context.Background(), "BEER HERE!"); err != nil {
		t.Fatalf("speak: %v", err)
	}

	if synth.Calls() != 1 {
		t.Fatalf("expected a single synthesis, got %d", synth.Calls())
	}
	if len(player.played) != 2 {
		t.Fatalf("expected both requests played, got %d", len(player.played))
	}
}

func TestDifferentPersonalityMissesCache(t *testing.T) {
	synth := &fakeSynth{dir: t.TempDir()}
	g, _, _ := newTestGenerator(t, synth, nil)

	if err := g.Speak(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	librarian, _ := personality.Builtin().Get("passive_aggressive_librarian")
	g.SetPersonality(librarian)
	if err := g.Speak(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}

	if synth.Calls() != 2 {
		t.Fatalf("expected separate synthesis per personality, got %d", synth.Calls())
	}
}

func TestCallbackFiresBeforePlayback(t *testing.T) {
	synth := &fakeSynth{dir: t.TempDir()}
	g, player, _ := newTestGenerator(t, synth, nil)

	var order []string
	err := g.SpeakWithCallback(context.Background(), "hi", func() {
		order = append(order, "callback")
		if len(player.played) != 0 {
			t.Fatalf("callback fired after playback began")
		}
	})
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if len(order) != 1 {
		t.Fatalf("expected callback to fire exactly once, got %d", len(order))
	}
}

func TestSynthesisFailureFallsBackAndKeepsCallbackContract(t *testing.T) {
	synth := &fakeSynth{dir: t.TempDir(), err: errors.New("api down")}
	fallback := &fakeFallback{}
	g, player, _ := newTestGenerator(t, synth, fallback)

	fired := false
	err := g.SpeakWithCallback(context.Background(), "sorry folks", func() { fired = true })
	if err != nil {
		t.Fatalf("fallback path should not surface an error: %v", err)
	}
	if !fired {
		t.Fatalf("callback must fire on the fallback path")
	}
	if len(fallback.spoken) != 1 || fallback.spoken[0] != "sorry folks" {
		t.Fatalf("expected fallback to speak the text, got %v", fallback.spoken)
	}
	if len(player.played) != 0 {
		t.Fatalf("player must not run when synthesis failed")
	}
}

func TestFallbackFailureIsReasoned(t *testing.T) {
	synth := &fakeSynth{dir: t.TempDir(), err: errors.New("api down")}
	fallback := &fakeFallback{err: errors.New("say missing")}
	g, _, _ := newTestGenerator(t, synth, fallback)

	err := g.Speak(context.Background(), "hi")
	if !errorsx.HasReason(err, errorsx.ReasonTTSFallback) {
		t.Fatalf("expected tts_fallback reason, got %v", err)
	}
}
