// Package pipeline wires segmentation, transcription, classification and
// reply generation into the per-utterance audio pipeline.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"rolloff-voice-gateway/internal/models"
	"rolloff-voice-gateway/internal/observability/logging"
	"rolloff-voice-gateway/internal/observability/metrics"
	"rolloff-voice-gateway/internal/service/intent"
	"rolloff-voice-gateway/internal/service/reply"
	"rolloff-voice-gateway/internal/service/segment"
	"rolloff-voice-gateway/internal/service/stt"
)

// Config holds orchestrator tunables.
type Config struct {
	Language       string
	BackendTimeout time.Duration
}

// Orchestrator runs one caller utterance through the pipeline:
// segment → transcribe each segment → classify → merge. It holds no state
// between invocations beyond the injected capabilities.
type Orchestrator struct {
	cfg         Config
	splitter    *segment.Splitter
	segIDs      *segment.Generator
	transcriber stt.Transcriber
	classifier  intent.Classifier
	generator   reply.Generator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// New constructs an Orchestrator with explicit capability dependencies.
func New(cfg Config, splitter *segment.Splitter, transcriber stt.Transcriber, classifier intent.Classifier, generator reply.Generator, m *metrics.Metrics) *Orchestrator {
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.BackendTimeout <= 0 {
		cfg.BackendTimeout = 15 * time.Second
	}
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Orchestrator{
		cfg:         cfg,
		splitter:    splitter,
		segIDs:      segment.NewGenerator(),
		transcriber: transcriber,
		classifier:  classifier,
		generator:   generator,
		metrics:     m,
		logger:      logging.WithComponent("pipeline"),
	}
}

// ProcessUtterance runs buf through the pipeline and returns the merged
// result, or nil when no segment yielded usable speech. A failed format
// check rejects the utterance with a *segment.FormatError before any
// backend is called. Segment transcriptions run concurrently; the merge
// waits for every outstanding segment. Cancellation of ctx discards
// in-flight results.
func (o *Orchestrator) ProcessUtterance(ctx context.Context, callID string, buf []byte) (*models.MergedResult, error) {
	if len(buf) == 0 {
		o.metrics.RecordUtterance(true)
		return nil, nil
	}
	if err := segment.CheckWAV(buf); err != nil {
		return nil, err
	}

	chunks := o.splitter.Split(buf)

	// Slots are indexed by segment order so concurrent completion cannot
	// reorder the merge input.
	slots := make([]*models.TranscriptResult, len(chunks))
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk []byte) {
			defer wg.Done()
			slots[i] = o.processSegment(ctx, callID, chunk)
		}(i, chunk)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		// Call ended mid-flight; discard everything.
		return nil, err
	}

	results := make([]models.TranscriptResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}

	merged := Merge(results)
	o.metrics.RecordUtterance(merged == nil)
	if merged != nil {
		o.logger.Debug().
			Str("callId", callID).
			Str("intent", string(merged.Intent)).
			Float64("confidence", merged.Confidence).
			Int("segments", merged.SegmentCount).
			Msg("utterance merged")
	}
	return merged, nil
}

// processSegment transcribes and classifies one segment. Returns nil when
// the segment is skipped: transcription failed (forward progress beats
// completeness) or no speech was recognized.
func (o *Orchestrator) processSegment(ctx context.Context, callID string, chunk []byte) *models.TranscriptResult {
	segID := o.segIDs.Next(callID)
	logger := logging.WithSegment(callID, segID)
	o.metrics.RecordSegment()

	tctx, cancel := context.WithTimeout(ctx, o.cfg.BackendTimeout)
	start := time.Now()
	res, err := o.transcriber.Transcribe(tctx, chunk, o.cfg.Language)
	cancel()
	o.metrics.RecordBackendCall("stt", err, time.Since(start).Seconds())
	if err != nil {
		logger.Warn().Err(err).Msg("segment transcription failed, skipping")
		o.metrics.RecordSegmentSkipped("transcription_failed")
		return nil
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		o.metrics.RecordSegmentSkipped("no_speech")
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, o.cfg.BackendTimeout)
	start = time.Now()
	ir, err := o.classifier.Classify(cctx, text)
	cancel()
	o.metrics.RecordBackendCall("intent", err, time.Since(start).Seconds())
	if err != nil {
		// Fail-open: the classifier already substituted the unknown
		// fallback; a reply will still be attempted.
		logger.Warn().Err(err).Msg("classification failed, using fallback intent")
	}

	return &models.TranscriptResult{
		Text:           text,
		Intent:         ir.Intent,
		Confidence:     ir.Confidence,
		ResponseNeeded: ir.ResponseNeeded,
		Timestamp:      time.Now().UTC(),
	}
}

// GenerateReply produces the spoken reply for a classified utterance. Any
// generation failure yields the canned fallback; the dialog channel never
// goes silent because of a backend hiccup.
func (o *Orchestrator) GenerateReply(ctx context.Context, in models.Intent, text string) string {
	gctx, cancel := context.WithTimeout(ctx, o.cfg.BackendTimeout)
	defer cancel()

	start := time.Now()
	out, err := o.generator.Reply(gctx, in, text)
	o.metrics.RecordBackendCall("reply", err, time.Since(start).Seconds())
	if err != nil {
		o.logger.Warn().Err(err).Str("intent", string(in)).Msg("reply generation failed, serving fallback")
		o.metrics.RecordFallbackReply()
		return reply.Fallback
	}

	out = strings.TrimSpace(out)
	if out == "" {
		o.metrics.RecordFallbackReply()
		return reply.Fallback
	}
	return out
}
