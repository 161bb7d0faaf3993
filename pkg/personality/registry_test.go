package personality

import (
	"strings"
	"testing"
)

func TestBuiltinCatalog(t *testing.T) {
	r := Builtin()

	p, ok := r.Get("sarcastic_comedian")
	if !ok {
		t.Fatalf("expected sarcastic_comedian to be registered")
	}
	if p.Greeting != "Hey there! You looking for a beer or what?" {
		t.Fatalf("unexpected greeting: %q", p.Greeting)
	}
	if p.ExitPhrase != "Asshole." {
		t.Fatalf("unexpected exit phrase: %q", p.ExitPhrase)
	}
	if !strings.Contains(p.PromptTemplate, DispenseTrigger) {
		t.Fatalf("prompt template should instruct the dispense trigger")
	}

	if _, ok := r.Get("no_such_persona"); ok {
		t.Fatalf("expected lookup miss for unknown key")
	}
}

func TestDefaultPersona(t *testing.T) {
	r := Builtin()
	if r.Default().Key != DefaultKey {
		t.Fatalf("expected default %s, got %s", DefaultKey, r.Default().Key)
	}
}

func TestListIsStableAndComplete(t *testing.T) {
	r := Builtin()
	entries := r.List()
	if len(entries) != 3 {
		t.Fatalf("expected 3 personas, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key >= entries[i].Key {
			t.Fatalf("expected sorted order, got %v", entries)
		}
	}
}

func TestRegistryValidation(t *testing.T) {
	if _, err := NewRegistry(Personality{Key: "x", ExitPhrase: "", PromptTemplate: "{context}"}); err == nil {
		t.Fatalf("expected error for empty exit phrase")
	}
	if _, err := NewRegistry(Personality{Key: "x", ExitPhrase: "Bye.", PromptTemplate: "no placeholder"}); err == nil {
		t.Fatalf("expected error for missing context placeholder")
	}
}
