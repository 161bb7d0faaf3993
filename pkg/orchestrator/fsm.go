package orchestrator

import (
	"sync"
	"time"
)

type State int

const (
	StateIdle State = iota
	StateGreeting
	StateAwaitingInput
	StateGenerating
	StateSpeaking
	StateEnded
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateGreeting:
		return "GREETING"
	case StateAwaitingInput:
		return "AWAITING_INPUT"
	case StateGenerating:
		return "GENERATING"
	case StateSpeaking:
		return "SPEAKING"
	case StateEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}

// StateChange represents a state transition event.
type StateChange struct {
	FromState State
	ToState   State
	Timestamp time.Time
	Reason    string
}

// StateListener observes conversation state changes.
type StateListener interface {
	OnStateChange(event StateChange)
}

// stateMachine validates and publishes conversation state transitions.
type stateMachine struct {
	mu           sync.RWMutex
	currentState State
	listeners    []StateListener
}

func newStateMachine() *stateMachine {
	return &stateMachine{currentState: StateIdle}
}

func (sm *stateMachine) State() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// transitionValid checks if a state transition is valid (must be called with lock held).
func (sm *stateMachine) transitionValid(from, to State) bool {
	validTransitions := map[State][]State{
		StateIdle:     {StateGreeting},
		StateGreeting: {StateAwaitingInput, StateGreeting},
		// AwaitingInput may jump back to Greeting on a persona switch.
		StateAwaitingInput: {StateGenerating, StateGreeting, StateIdle},
		// Generating falls back to Greeting when the model is unavailable.
		StateGenerating: {StateSpeaking, StateGreeting},
		StateSpeaking:   {StateAwaitingInput, StateEnded},
		StateEnded:      {StateGreeting, StateIdle},
	}

	allowed, exists := validTransitions[from]
	if !exists {
		return false
	}
	for _, state := range allowed {
		if state == to {
			return true
		}
	}
	return false
}

// Transition moves to a new state with validation.
func (sm *stateMachine) Transition(state State, reason string) error {
	sm.mu.Lock()
	if !sm.transitionValid(sm.currentState, state) {
		err := &InvalidTransitionError{From: sm.currentState, To: state}
		sm.mu.Unlock()
		return err
	}
	event := StateChange{
		FromState: sm.currentState,
		ToState:   state,
		Timestamp: time.Now(),
		Reason:    reason,
	}
	sm.currentState = state
	listeners := make([]StateListener, len(sm.listeners))
	copy(listeners, sm.listeners)
	sm.mu.Unlock()

	// Notify outside the lock to avoid deadlocks with listener callbacks.
	for _, listener := range listeners {
		listener.OnStateChange(event)
	}
	return nil
}

// AddListener registers a listener for state change events.
func (sm *stateMachine) AddListener(listener StateListener) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.listeners = append(sm.listeners, listener)
}

// InvalidTransitionError represents an invalid state transition attempt.
type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return "invalid state transition from " + e.From.String() + " to " + e.To.String()
}
