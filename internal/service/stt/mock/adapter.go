// Package mock provides a mock transcription provider for running without
// backend credentials. It cycles through scripted caller utterances.
package mock

import (
	"context"
	"sync"

	"rolloff-voice-gateway/internal/service/stt"
)

// ScriptedUtterance is one canned recognition result.
type ScriptedUtterance struct {
	Text       string
	Confidence float64
}

// DefaultUtterances provides sample caller speech for simulation.
var DefaultUtterances = []ScriptedUtterance{
	{Text: "how much does a dumpster cost", Confidence: 0.94},
	{Text: "do you deliver to maple grove", Confidence: 0.91},
	{Text: "I'd like to order a twenty yard dumpster", Confidence: 0.95},
	{Text: "what sizes do you have", Confidence: 0.97},
	{Text: "goodbye", Confidence: 0.98},
}

// Adapter implements stt.Transcriber with scripted responses.
type Adapter struct {
	mu         sync.Mutex
	utterances []ScriptedUtterance
	next       int
}

// New creates a mock adapter cycling through DefaultUtterances.
func New() *Adapter {
	return NewScripted(DefaultUtterances)
}

// NewScripted creates a mock adapter with the given script.
func NewScripted(utterances []ScriptedUtterance) *Adapter {
	return &Adapter{utterances: utterances}
}

// Transcribe returns the next scripted utterance, regardless of audio.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, language string) (stt.Result, error) {
	if err := ctx.Err(); err != nil {
		return stt.Result{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.utterances) == 0 {
		return stt.Result{}, nil
	}
	u := a.utterances[a.next%len(a.utterances)]
	a.next++
	return stt.Result{Text: u.Text, Confidence: u.Confidence}, nil
}
