// Package reply generates spoken natural-language replies for classified
// caller intents.
package reply

import (
	"context"
	"errors"

	"rolloff-voice-gateway/internal/models"
)

// ErrGenerationFailed marks backend reply-generation failures. Callers
// substitute Fallback rather than surfacing the error to the caller; the
// spoken channel never goes silent.
var ErrGenerationFailed = errors.New("reply generation failed")

// Fallback is the canned reply served when generation fails.
const Fallback = "I'd be happy to help you with that! What can I tell you about our dumpster services?"

// Generator produces a conversational reply for an intent and the caller's
// original words.
type Generator interface {
	Reply(ctx context.Context, intent models.Intent, text string) (string, error)
}
