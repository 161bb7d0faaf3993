package convo

import (
	"testing"

	"terrytube/pkg/personality"
)

type stubFolders struct {
	calls int
	path  string
}

func (s *stubFolders) NewSessionFolder() (string, error) {
	s.calls++
	return s.path, nil
}

func testPersona() personality.Personality {
	return personality.Builtin().Default()
}

func TestSessionFolderIsLazyAndCreatedOnce(t *testing.T) {
	folders := &stubFolders{path: "recordings/20250101_120000"}
	s := NewSession(testPersona(), folders)
	s.Start()

	if s.Folder() != "" {
		t.Fatalf("expected no folder before first user turn")
	}

	s.AddUserMessage("I deserve it")
	s.AddUserMessage("really")
	if folders.calls != 1 {
		t.Fatalf("expected one folder creation, got %d", folders.calls)
	}
	if s.Folder() != folders.path {
		t.Fatalf("unexpected folder %q", s.Folder())
	}
}

func TestResetClearsEverything(t *testing.T) {
	folders := &stubFolders{path: "recordings/20250101_120000"}
	s := NewSession(testPersona(), folders)
	s.Start()
	s.AddUserMessage("beer")
	s.AddAssistantTurn("Why? [Q]")
	if !s.MarkBeerDispensed() {
		t.Fatalf("expected first dispense to succeed")
	}

	s.Reset()

	if len(s.History()) != 0 {
		t.Fatalf("expected empty history after reset")
	}
	if s.QuestionCount() != 0 {
		t.Fatalf("expected question count 0 after reset")
	}
	if s.BeerDispensed() {
		t.Fatalf("expected beer flag cleared after reset")
	}
	if s.Folder() != "" {
		t.Fatalf("expected folder reference dropped after reset")
	}

	// The next user turn starts a fresh folder.
	s.Start()
	s.AddUserMessage("again")
	if folders.calls != 2 {
		t.Fatalf("expected a new folder for the next session, got %d calls", folders.calls)
	}
}

func TestQuestionCountIncrementsPerAssistantTurn(t *testing.T) {
	s := NewSession(testPersona(), nil)
	s.Start()
	for i := 1; i <= 3; i++ {
		s.AddUserMessage("answer")
		s.AddAssistantTurn("question")
		if s.QuestionCount() != i {
			t.Fatalf("expected count %d, got %d", i, s.QuestionCount())
		}
	}
}

func TestMarkBeerDispensedFiresOnce(t *testing.T) {
	s := NewSession(testPersona(), nil)
	s.Start()
	if !s.MarkBeerDispensed() {
		t.Fatalf("first dispense should fire")
	}
	if s.MarkBeerDispensed() {
		t.Fatalf("second dispense must not fire")
	}
}

func TestEmptyUserMessageIsAValidTurn(t *testing.T) {
	s := NewSession(testPersona(), nil)
	s.Start()
	s.AddUserMessage("")
	h := s.History()
	if len(h) != 1 || h[0].Role != RoleHuman || h[0].Text != "" {
		t.Fatalf("expected a single empty Human turn, got %+v", h)
	}
}

func TestRenderHistory(t *testing.T) {
	turns := []Turn{
		{Role: RoleHuman, Text: "give me a beer"},
		{Role: RoleAssistant, Text: "Why? [Q]"},
	}
	got := RenderHistory(turns)
	want := "Human: give me a beer\nAI: Why? [Q]"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
