package personality

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultKey is the persona used when none is selected explicitly.
const DefaultKey = "sarcastic_comedian"

// Registry is a static catalog of personas. It is consumed, never mutated,
// after construction.
type Registry struct {
	byKey map[string]Personality
	order []string
}

// Entry is a (key, display name) pair for selection UIs.
type Entry struct {
	Key  string
	Name string
}

func NewRegistry(personas ...Personality) (*Registry, error) {
	r := &Registry{byKey: make(map[string]Personality, len(personas))}
	for _, p := range personas {
		key := strings.TrimSpace(p.Key)
		if key == "" {
			return nil, fmt.Errorf("personality with empty key")
		}
		if strings.TrimSpace(p.ExitPhrase) == "" {
			return nil, fmt.Errorf("personality %s: exit phrase is required", key)
		}
		if !strings.Contains(p.PromptTemplate, contextPlaceholder) {
			return nil, fmt.Errorf("personality %s: prompt template missing %s", key, contextPlaceholder)
		}
		if _, dup := r.byKey[key]; dup {
			return nil, fmt.Errorf("personality %s registered twice", key)
		}
		r.byKey[key] = p
		r.order = append(r.order, key)
	}
	sort.Strings(r.order)
	return r, nil
}

// Get resolves a persona by key.
func (r *Registry) Get(key string) (Personality, bool) {
	p, ok := r.byKey[strings.TrimSpace(key)]
	return p, ok
}

// Default returns the default persona.
func (r *Registry) Default() Personality {
	if p, ok := r.byKey[DefaultKey]; ok {
		return p
	}
	// Fall back to the first registered persona.
	return r.byKey[r.order[0]]
}

// List returns (key, display name) pairs in stable order.
func (r *Registry) List() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, Entry{Key: key, Name: r.byKey[key].Name})
	}
	return out
}
