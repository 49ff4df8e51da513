package dialog

import (
	"errors"
	"testing"
)

func TestRegistry_CreateGetRemove(t *testing.T) {
	r := NewRegistry()

	s := r.Create("call-1")
	if s.State != StateGreeting {
		t.Errorf("new session must start in greeting, got %s", s.State)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 session, got %d", r.Len())
	}

	got, err := r.Get("call-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Error("Get must return the created session")
	}

	r.Remove("call-1")
	if _, err := r.Get("call-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after remove, got %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("expected 0 sessions, got %d", r.Len())
	}
}

func TestRegistry_CreateReplacesExisting(t *testing.T) {
	r := NewRegistry()

	first := r.Create("call-1")
	first.TurnCount = 4

	second := r.Create("call-1")
	if second == first {
		t.Error("Create must replace an existing session")
	}
	if second.TurnCount != 0 {
		t.Errorf("replacement session must be fresh, got %d turns", second.TurnCount)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 session, got %d", r.Len())
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestState_Terminal(t *testing.T) {
	for _, s := range []State{StateGreeting, StateListening, StateProcessing, StateResponding} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
	if !StateEnded.Terminal() {
		t.Error("ended must be terminal")
	}
}
