// Package logging provides structured logger helpers with zerolog.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WithComponent returns a logger with a component tag.
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}

// WithCall returns a logger with call context.
func WithCall(callID string) zerolog.Logger {
	return log.With().
		Str("callId", callID).
		Logger()
}

// WithSegment returns a logger with call and segment context.
func WithSegment(callID, segmentID string) zerolog.Logger {
	return log.With().
		Str("callId", callID).
		Str("segmentId", segmentID).
		Logger()
}

// WithBackend returns a logger with call and backend-capability context.
func WithBackend(callID, backend string) zerolog.Logger {
	return log.With().
		Str("callId", callID).
		Str("backend", backend).
		Logger()
}
