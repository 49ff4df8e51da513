package pipeline

import (
	"strings"

	"rolloff-voice-gateway/internal/models"
)

// Merge reduces the per-segment results of one utterance into a single
// MergedResult. Returns nil when no segment yielded usable speech. A single
// result passes through verbatim. Otherwise texts are joined in segment
// order with whitespace normalized, and intent/confidence/response_needed
// come from the highest-confidence segment; equal confidences resolve to
// the earliest segment, independent of merge implementation order.
func Merge(results []models.TranscriptResult) *models.MergedResult {
	if len(results) == 0 {
		return nil
	}

	if len(results) == 1 {
		r := results[0]
		return &models.MergedResult{
			Text:           r.Text,
			Intent:         r.Intent,
			Confidence:     r.Confidence,
			ResponseNeeded: r.ResponseNeeded,
			SegmentCount:   1,
		}
	}

	parts := make([]string, 0, len(results))
	best := 0
	for i, r := range results {
		parts = append(parts, r.Text)
		// Strict > keeps the earliest segment on ties.
		if r.Confidence > results[best].Confidence {
			best = i
		}
	}

	return &models.MergedResult{
		Text:           strings.Join(strings.Fields(strings.Join(parts, " ")), " "),
		Intent:         results[best].Intent,
		Confidence:     results[best].Confidence,
		ResponseNeeded: results[best].ResponseNeeded,
		SegmentCount:   len(results),
	}
}
