package errorsx

import "testing"

func TestWrapAndReason(t *testing.T) {
	err := Wrap(assertErr{}, ReasonLLMUnavailable)
	if Reason(err) != ReasonLLMUnavailable {
		t.Fatalf("expected reason %s, got %s", ReasonLLMUnavailable, Reason(err))
	}
	if !HasReason(err, ReasonLLMUnavailable) {
		t.Fatalf("expected HasReason true")
	}
}

func TestWrapPreservesExistingReason(t *testing.T) {
	first := Wrap(assertErr{}, ReasonSTTTranscribe)
	second := Wrap(first, ReasonLLMUnavailable)
	if Reason(second) != ReasonSTTTranscribe {
		t.Fatalf("expected reason preserved, got %s", Reason(second))
	}
}

func TestNewCarriesReason(t *testing.T) {
	err := New("recording too small", ReasonRecordFailed)
	if !HasReason(err, ReasonRecordFailed) {
		t.Fatalf("expected reason %s, got %s", ReasonRecordFailed, Reason(err))
	}
	if err.Error() != "recording too small" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
