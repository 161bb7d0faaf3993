package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const indexFile = "index.json"

// Cache is a content-addressed store of synthesized audio keyed by
// (text, personality). Entries are size- and age-bounded; when the byte cap
// is exceeded the least recently accessed entries go first. The index is
// persisted as JSON so cached audio survives restarts.
//
// Reads are safe from any goroutine. Inserts copy the audio file fully
// before publishing the entry, so a concurrent reader never sees a partial
// file.
type Cache struct {
	dir      string
	maxBytes int64
	maxAge   time.Duration

	mu      sync.Mutex
	entries map[string]*cacheEntry

	now    func() time.Time
	logger *slog.Logger
}

type cacheEntry struct {
	Filename     string    `json:"filename"`
	Personality  string    `json:"personality"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

func NewCache(dir string, maxBytes int64, maxAge time.Duration, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		maxBytes = 100 << 20
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		dir:      dir,
		maxBytes: maxBytes,
		maxAge:   maxAge,
		entries:  make(map[string]*cacheEntry),
		now:      time.Now,
		logger:   logger,
	}
	c.loadIndex()
	return c, nil
}

// Key derives the cache key for a (text, personality) pair.
func Key(text, personalityKey string) string {
	sum := sha256.Sum256([]byte(personalityKey + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached audio path for the pair, refreshing its access
// time. A stale or missing file counts as a miss and drops the entry.
func (c *Cache) Get(text, personalityKey string) (string, bool) {
	key := Key(text, personalityKey)
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	path := filepath.Join(c.dir, entry.Filename)
	if _, err := os.Stat(path); err != nil {
		delete(c.entries, key)
		c.saveIndexLocked()
		return "", false
	}
	if c.now().Sub(entry.CreatedAt) > c.maxAge {
		c.removeLocked(key)
		c.saveIndexLocked()
		return "", false
	}
	entry.LastAccessed = c.now()
	c.saveIndexLocked()
	return path, true
}

// Put copies audioPath into the cache and publishes the entry, then evicts
// LRU entries if the byte cap is exceeded. Returns the cached path; on any
// failure the original path is returned so playback still works.
func (c *Cache) Put(text, personalityKey, audioPath string) string {
	key := Key(text, personalityKey)
	filename := key[:16] + filepath.Ext(audioPath)
	dst := filepath.Join(c.dir, filename)

	size, err := copyFile(audioPath, dst)
	if err != nil {
		c.logger.Warn("cache insert failed", slog.String("error", err.Error()))
		return audioPath
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{
		Filename:     filename,
		Personality:  personalityKey,
		Size:         size,
		CreatedAt:    c.now(),
		LastAccessed: c.now(),
	}
	c.evictLocked()
	c.saveIndexLocked()
	return dst
}

// Sweep drops entries older than the age cap. Run opportunistically and by
// the background sweeper.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-c.maxAge)
	var removed int
	for key, entry := range c.entries {
		if entry.CreatedAt.Before(cutoff) {
			c.removeLocked(key)
			removed++
		}
	}
	if removed > 0 {
		c.saveIndexLocked()
		c.logger.Info("cache sweep", slog.Int("removed", removed))
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is done.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) totalBytesLocked() int64 {
	var total int64
	for _, e := range c.entries {
		total += e.Size
	}
	return total
}

// evictLocked removes least-recently-accessed entries until the cache is at
// or under 80% of the byte cap.
func (c *Cache) evictLocked() {
	total := c.totalBytesLocked()
	if total <= c.maxBytes {
		return
	}
	type keyed struct {
		key   string
		entry *cacheEntry
	}
	ordered := make([]keyed, 0, len(c.entries))
	for k, e := range c.entries {
		ordered = append(ordered, keyed{k, e})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].entry.LastAccessed.Before(ordered[j].entry.LastAccessed)
	})
	target := c.maxBytes * 8 / 10
	for _, item := range ordered {
		if total <= target {
			break
		}
		total -= item.entry.Size
		c.removeLocked(item.key)
	}
}

func (c *Cache) removeLocked(key string) {
	entry, ok := c.entries[key]
	if !ok {
		return
	}
	_ = os.Remove(filepath.Join(c.dir, entry.Filename))
	delete(c.entries, key)
}

func (c *Cache) loadIndex() {
	data, err := os.ReadFile(filepath.Join(c.dir, indexFile))
	if err != nil {
		return
	}
	var entries map[string]*cacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("cache index unreadable, starting empty", slog.String("error", err.Error()))
		return
	}
	c.entries = entries
}

func (c *Cache) saveIndexLocked() {
	data, err := json.Marshal(c.entries)
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(c.dir, indexFile), data, 0o644)
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer out.Close()
	return io.Copy(out, in)
}
