// Package artifacts manages the on-disk session folders holding recorded
// and synthesized audio. One folder per session, named by timestamp; no
// other state persists across restarts.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"terrytube/pkg/errorsx"
)

const folderStamp = "20060102_150405"

// Store creates and purges session folders under a recordings root.
type Store struct {
	root string
	now  func() time.Time
}

func NewStore(root string) *Store {
	return &Store{root: root, now: time.Now}
}

// Root returns the recordings root directory.
func (s *Store) Root() string { return s.root }

// NewSessionFolder creates a timestamped folder for the session being
// started and returns its path.
func (s *Store) NewSessionFolder() (string, error) {
	stamp := s.now().Format(folderStamp)
	path := filepath.Join(s.root, stamp)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", errorsx.Wrap(fmt.Errorf("create session folder: %w", err), errorsx.ReasonSessionStorage)
	}
	return path, nil
}

// Purge removes session folders (and stray files) older than maxAge.
// Returns the number of entries removed. Called once at startup.
func (s *Store) Purge(maxAge time.Duration) (int, error) {
	if s.root == "" || maxAge <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	var removed int
	cutoff := s.now().Add(-maxAge)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			continue
		}
		removed++
	}
	return removed, nil
}
