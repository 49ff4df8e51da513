package dialog

import (
	"errors"
	"sync"
)

// ErrSessionNotFound is returned when a call ID has no active session.
var ErrSessionNotFound = errors.New("session not found")

// Registry is an in-memory store of active call sessions keyed by call ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create registers a fresh session for callID. An existing session for the
// same call ID is replaced; telephony providers occasionally redeliver the
// call-start webhook.
func (r *Registry) Create(callID string) *Session {
	s := newSession(callID)
	r.mu.Lock()
	r.sessions[callID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session for callID or ErrSessionNotFound.
func (r *Registry) Get(callID string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[callID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops the session for callID, if any.
func (r *Registry) Remove(callID string) {
	r.mu.Lock()
	delete(r.sessions, callID)
	r.mu.Unlock()
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
