package speech

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAudio(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCachePutGetRoundtrip(t *testing.T) {
	cache, err := NewCache(t.TempDir(), 1<<20, time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}
	src := writeAudio(t, t.TempDir(), "a.wav", 128)

	cached := cache.Put("hello", "sarcastic_comedian", src)
	got, ok := cache.Get("hello", "sarcastic_comedian")
	if !ok || got != cached {
		t.Fatalf("expected hit at %q, got %q ok=%v", cached, got, ok)
	}

	if _, ok := cache.Get("hello", "rude_childrens_host"); ok {
		t.Fatalf("expected miss for a different personality")
	}
	if _, ok := cache.Get("other text", "sarcastic_comedian"); ok {
		t.Fatalf("expected miss for different text")
	}
}

func TestCacheExpiresByAge(t *testing.T) {
	cache, err := NewCache(t.TempDir(), 1<<20, time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}
	src := writeAudio(t, t.TempDir(), "a.wav", 64)
	cache.Put("stale", "p", src)

	cache.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, ok := cache.Get("stale", "p"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected expired entry removed, have %d", cache.Len())
	}
}

func TestCacheEvictsLeastRecentlyAccessedFirst(t *testing.T) {
	// Cap fits roughly two of the three entries.
	cache, err := NewCache(t.TempDir(), 1000, time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}
	srcDir := t.TempDir()

	base := time.Now()
	tick := 0
	cache.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	cache.Put("one", "p", writeAudio(t, srcDir, "1.wav", 400))
	cache.Put("two", "p", writeAudio(t, srcDir, "2.wav", 400))
	// Touch "one" so "two" becomes the LRU entry.
	if _, ok := cache.Get("one", "p"); !ok {
		t.Fatalf("expected hit for one")
	}
	cache.Put("three", "p", writeAudio(t, srcDir, "3.wav", 400))

	if _, ok := cache.Get("two", "p"); ok {
		t.Fatalf("expected LRU entry evicted")
	}
	if _, ok := cache.Get("one", "p"); !ok {
		t.Fatalf("expected recently accessed entry kept")
	}
	if _, ok := cache.Get("three", "p"); !ok {
		t.Fatalf("expected newest entry kept")
	}
}

func TestCacheSweepRemovesExpired(t *testing.T) {
	cache, err := NewCache(t.TempDir(), 1<<20, time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}
	src := writeAudio(t, t.TempDir(), "a.wav", 64)
	cache.Put("old", "p", src)

	cache.now = func() time.Time { return time.Now().Add(3 * time.Hour) }
	if removed := cache.Sweep(); removed != 1 {
		t.Fatalf("expected 1 swept, got %d", removed)
	}
}

func TestCacheIndexSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir, 1<<20, time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}
	src := writeAudio(t, t.TempDir(), "a.wav", 64)
	cache.Put("persisted", "p", src)

	reloaded, err := NewCache(dir, 1<<20, time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reloaded.Get("persisted", "p"); !ok {
		t.Fatalf("expected entry to survive reload")
	}
}
