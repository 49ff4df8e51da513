// Package stt defines the interface for speech-to-text providers.
package stt

import (
	"context"
	"errors"
)

// ErrTranscriptionFailed marks transient backend failures (timeouts, rate
// limits, service errors). The pipeline skips the affected segment and
// keeps going; it never aborts the utterance for one of these.
var ErrTranscriptionFailed = errors.New("transcription failed")

// Result is the recognition outcome for one audio segment.
// Text is empty when the backend detected no speech.
type Result struct {
	Text       string
	Confidence float64
}

// Transcriber converts one audio segment to text.
type Transcriber interface {
	// Transcribe submits an audio segment and returns the recognized text.
	// The caller supplies audio in the format the backend requires.
	Transcribe(ctx context.Context, audio []byte, language string) (Result, error)
}
