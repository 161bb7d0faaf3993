// Package input captures customer speech from the kiosk microphone by
// shelling out to the OS recording tool. Recording is push-to-talk: Start
// begins capture, Stop ends it and hands back the file.
package input

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"terrytube/pkg/errorsx"
	"terrytube/pkg/logging"
)

// minRecordingBytes guards against button taps that produce a header-only
// file no transcriber can use.
const minRecordingBytes = 4096

type Config struct {
	// MaxDuration auto-stops a recording whose stop signal never arrives.
	MaxDuration time.Duration
	// SampleRate for the captured wav file.
	SampleRate int
}

type Recorder struct {
	cfg    Config
	logger *slog.Logger

	// newCommand builds the capture process. Overridable for tests.
	newCommand func(path string) (*exec.Cmd, error)

	mu      sync.Mutex
	current *recording
	// finished holds a capture the max-duration timer completed before the
	// customer's stop arrived. The next Stop hands it over.
	finished string
}

type recording struct {
	cmd   *exec.Cmd
	path  string
	timer *time.Timer
	done  chan error
}

func NewRecorder(cfg Config, base *slog.Logger) *Recorder {
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = 30 * time.Second
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if base == nil {
		base = slog.Default()
	}
	return &Recorder{cfg: cfg, logger: logging.NewComponentLogger(base, "recorder")}
}

// Recording reports whether a capture is currently in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

// Start begins capturing into dir. Returns the file path the recording will
// land at, or record_failed if a capture is already running or no recording
// tool is available.
func (r *Recorder) Start(dir string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		return "", errorsx.New("recording already in progress", errorsx.ReasonRecordFailed)
	}
	// A new capture abandons any auto-stopped file nobody collected.
	r.finished = ""

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonRecordFailed)
	}
	path := filepath.Join(dir, fmt.Sprintf("recording_%d.wav", time.Now().UnixNano()))

	factory := r.newCommand
	if factory == nil {
		factory = r.recordCommand
	}
	cmd, err := factory(path)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonRecordFailed)
	}
	if err := cmd.Start(); err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonRecordFailed)
	}

	rec := &recording{cmd: cmd, path: path, done: make(chan error, 1)}
	go func() { rec.done <- cmd.Wait() }()
	rec.timer = time.AfterFunc(r.cfg.MaxDuration, func() {
		r.mu.Lock()
		if r.current != rec {
			r.mu.Unlock()
			return
		}
		r.current = nil
		r.mu.Unlock()

		r.logger.Warn("recording hit max duration, stopping", slog.String("path", path))
		// The capture is still the customer's utterance; keep it so the
		// stop click that follows can hand it to transcription.
		stopped, err := r.finish(rec)
		if err != nil {
			r.logger.Warn("auto-stopped recording unusable", slog.String("error", err.Error()))
			return
		}
		r.mu.Lock()
		r.finished = stopped
		r.mu.Unlock()
	})
	r.current = rec

	r.logger.Debug("recording started", slog.String("path", path))
	return path, nil
}

// Stop ends the current capture and returns the recorded file. A capture
// already completed by the max-duration timer is returned instead of an
// error. Returns record_failed when nothing was recorded or the captured
// file is too small to contain speech.
func (r *Recorder) Stop() (string, error) {
	r.mu.Lock()
	rec := r.current
	r.current = nil
	if rec == nil {
		stopped := r.finished
		r.finished = ""
		r.mu.Unlock()
		if stopped != "" {
			return stopped, nil
		}
		return "", errorsx.New("no recording in progress", errorsx.ReasonRecordFailed)
	}
	r.mu.Unlock()
	return r.finish(rec)
}

// finish terminates the capture process and validates the file.
func (r *Recorder) finish(rec *recording) (string, error) {
	rec.timer.Stop()

	// SIGTERM lets the recorder flush its wav header before exiting.
	_ = rec.cmd.Process.Signal(os.Interrupt)
	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		_ = rec.cmd.Process.Kill()
		<-rec.done
	}

	info, err := os.Stat(rec.path)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonRecordFailed)
	}
	if info.Size() < minRecordingBytes {
		os.Remove(rec.path)
		return "", errorsx.New("recording too short", errorsx.ReasonRecordFailed)
	}

	r.logger.Debug("recording stopped",
		slog.String("path", rec.path),
		slog.Int64("bytes", info.Size()))
	return rec.path, nil
}

func (r *Recorder) recordCommand(path string) (*exec.Cmd, error) {
	rate := fmt.Sprintf("%d", r.cfg.SampleRate)
	if runtime.GOOS != "darwin" && commandExists("arecord") {
		return exec.Command("arecord", "-q", "-f", "S16_LE", "-r", rate, "-c", "1", path), nil
	}
	if commandExists("rec") {
		return exec.Command("rec", "-q", "-r", rate, "-c", "1", path), nil
	}
	if commandExists("sox") {
		return exec.Command("sox", "-q", "-d", "-r", rate, "-c", "1", path), nil
	}
	return nil, fmt.Errorf("no recording command available")
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
