// Package dialog holds the per-call conversation state machine and the
// controller that turns caller input into spoken directives.
package dialog

import (
	"sync"
	"time"

	"rolloff-voice-gateway/internal/models"
)

// State is the phase of a call session.
type State string

const (
	// StateGreeting is the initial state before the greeting is played.
	StateGreeting State = "greeting"
	// StateListening means the gateway is gathering caller speech.
	StateListening State = "listening"
	// StateProcessing means an utterance is running through the pipeline.
	StateProcessing State = "processing"
	// StateResponding means a reply is being spoken to the caller.
	StateResponding State = "responding"
	// StateEnded is terminal. No further turns are accepted.
	StateEnded State = "ended"
)

// Terminal reports whether the state accepts no further transitions.
func (s State) Terminal() bool {
	return s == StateEnded
}

func (s State) String() string {
	return string(s)
}

// Session is the mutable conversation state for one call. All fields are
// guarded by mu; webhook deliveries for a single call may overlap.
type Session struct {
	mu sync.Mutex

	CallID      string
	State       State
	TurnCount   int
	SilentTurns int
	LastIntent  models.Intent
	StartedAt   time.Time
}

func newSession(callID string) *Session {
	return &Session{
		CallID:    callID,
		State:     StateGreeting,
		StartedAt: time.Now().UTC(),
	}
}

// Snapshot returns a copy of the session's current counters and state.
func (s *Session) Snapshot() (state State, turns, silent int, lastIntent models.Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State, s.TurnCount, s.SilentTurns, s.LastIntent
}

// Duration returns the elapsed time since the call started.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.StartedAt)
}
