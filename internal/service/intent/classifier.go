// Package intent classifies recognized caller speech into the fixed intent
// catalog. Classification is fail-open: a broken backend yields the unknown
// fallback so a reply can still be attempted.
package intent

import (
	"context"
	"errors"

	"rolloff-voice-gateway/internal/models"
)

// ErrClassificationFailed marks backend classification failures. The
// accompanying IntentResult is always usable: callers log the error and
// proceed with the fallback.
var ErrClassificationFailed = errors.New("classification failed")

// Classifier extracts the caller's intent from recognized text.
type Classifier interface {
	// Classify returns a structured intent for text. On failure it returns
	// models.FallbackIntentResult() together with the wrapped error; it
	// never returns an unusable result.
	Classify(ctx context.Context, text string) (models.IntentResult, error)
}
