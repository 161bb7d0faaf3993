package input

import (
	"os"
	"os/exec"
	"testing"
	"time"

	"terrytube/pkg/errorsx"
)

func TestStopWithoutStartIsRejected(t *testing.T) {
	r := NewRecorder(Config{}, nil)
	_, err := r.Stop()
	if !errorsx.HasReason(err, errorsx.ReasonRecordFailed) {
		t.Fatalf("error = %v, want reason %s", err, errorsx.ReasonRecordFailed)
	}
}

func TestMaxDurationAutoStopKeepsRecording(t *testing.T) {
	r := NewRecorder(Config{MaxDuration: 50 * time.Millisecond}, nil)
	r.newCommand = func(path string) (*exec.Cmd, error) {
		if err := os.WriteFile(path, make([]byte, minRecordingBytes), 0o644); err != nil {
			return nil, err
		}
		return exec.Command("sleep", "60"), nil
	}

	want, err := r.Start(t.TempDir())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for r.Recording() {
		if time.Now().After(deadline) {
			t.Fatal("auto-stop never fired")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The customer's stop click lands after the auto-stop; the captured
	// utterance must still come back.
	for {
		got, err := r.Stop()
		if err == nil {
			if got != want {
				t.Fatalf("path = %q, want %q", got, want)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("stop after auto-stop: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The file is handed over once.
	if _, err := r.Stop(); !errorsx.HasReason(err, errorsx.ReasonRecordFailed) {
		t.Fatalf("second stop error = %v, want reason %s", err, errorsx.ReasonRecordFailed)
	}
}

func TestStartDropsUncollectedAutoStop(t *testing.T) {
	r := NewRecorder(Config{}, nil)
	r.mu.Lock()
	r.finished = "/tmp/recording_stale.wav"
	r.mu.Unlock()

	r.newCommand = func(path string) (*exec.Cmd, error) {
		if err := os.WriteFile(path, make([]byte, minRecordingBytes), 0o644); err != nil {
			return nil, err
		}
		return exec.Command("sleep", "60"), nil
	}
	if _, err := r.Start(t.TempDir()); err != nil {
		t.Fatalf("start: %v", err)
	}
	want, err := r.Stop()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if want == "/tmp/recording_stale.wav" {
		t.Fatal("stale auto-stopped file survived a new capture")
	}
}

func TestRecorderDefaults(t *testing.T) {
	r := NewRecorder(Config{}, nil)
	if r.cfg.MaxDuration <= 0 {
		t.Fatal("max duration default not applied")
	}
	if r.cfg.SampleRate != 16000 {
		t.Fatalf("sample rate default = %d, want 16000", r.cfg.SampleRate)
	}
	if r.Recording() {
		t.Fatal("new recorder reports recording in progress")
	}
}
