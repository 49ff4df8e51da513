package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rolloff-voice-gateway/internal/models"
	"rolloff-voice-gateway/internal/service/intent"
	"rolloff-voice-gateway/internal/service/segment"
	"rolloff-voice-gateway/internal/service/stt"
)

// fakeTranscriber maps chunk payloads to canned results. Unknown chunks
// (like WAV header slices) yield no speech. Optional per-chunk delays let
// tests force out-of-order completion.
type fakeTranscriber struct {
	mu     sync.Mutex
	texts  map[string]string
	errs   map[string]error
	delays map[string]time.Duration
	calls  int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (stt.Result, error) {
	key := string(audio)
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if d, ok := f.delays[key]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return stt.Result{}, ctx.Err()
		}
	}
	if err, ok := f.errs[key]; ok {
		return stt.Result{}, err
	}
	return stt.Result{Text: f.texts[key], Confidence: 1.0}, nil
}

// fakeClassifier maps text to canned intent results.
type fakeClassifier struct {
	results map[string]models.IntentResult
	err     error
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (models.IntentResult, error) {
	if f.err != nil {
		return models.FallbackIntentResult(), f.err
	}
	if r, ok := f.results[text]; ok {
		return r, nil
	}
	return models.IntentResult{Intent: models.IntentGeneralQuestion, Confidence: 0.5, ResponseNeeded: true}, nil
}

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Reply(ctx context.Context, in models.Intent, text string) (string, error) {
	return f.reply, f.err
}

// wavBuffer builds a minimal RIFF/WAVE buffer carrying payload.
func wavBuffer(payload string) []byte {
	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	copy(header[8:12], "WAVE")
	return append(header, payload...)
}

func newOrchestrator(t *testing.T, segSize int, tr stt.Transcriber, cl intent.Classifier, gen *fakeGenerator) *Orchestrator {
	t.Helper()
	if gen == nil {
		gen = &fakeGenerator{reply: "Happy to help!"}
	}
	return New(Config{Language: "en-US", BackendTimeout: 2 * time.Second},
		segment.NewSplitter(segSize), tr, cl, gen, nil)
}

func TestProcessUtterance_MultiSegmentMerge(t *testing.T) {
	// Segment size 4: the 44-byte header splits into silent chunks, the
	// payload "aaaabbbb" into two speech chunks.
	tr := &fakeTranscriber{
		texts: map[string]string{
			"aaaa": "how much does",
			"bbbb": "a dumpster cost",
		},
		// The second chunk completes before the first; merge order must
		// still follow segment order.
		delays: map[string]time.Duration{"aaaa": 50 * time.Millisecond},
	}
	cl := &fakeClassifier{results: map[string]models.IntentResult{
		"how much does":   {Intent: models.IntentGeneralQuestion, Confidence: 0.4, ResponseNeeded: true},
		"a dumpster cost": {Intent: models.IntentPricingInquiry, Confidence: 0.9, ResponseNeeded: true},
	}}

	o := newOrchestrator(t, 4, tr, cl, nil)
	merged, err := o.ProcessUtterance(context.Background(), "call-1", wavBuffer("aaaabbbb"))
	if err != nil {
		t.Fatalf("ProcessUtterance: %v", err)
	}
	if merged == nil {
		t.Fatal("expected merged result")
	}
	if merged.Text != "how much does a dumpster cost" {
		t.Errorf("unexpected merged text %q", merged.Text)
	}
	if merged.Intent != models.IntentPricingInquiry {
		t.Errorf("expected pricing_inquiry, got %s", merged.Intent)
	}
	if merged.SegmentCount != 2 {
		t.Errorf("expected 2 usable segments, got %d", merged.SegmentCount)
	}
}

func TestProcessUtterance_FailedSegmentSkipped(t *testing.T) {
	tr := &fakeTranscriber{
		texts: map[string]string{"bbbb": "what sizes do you have"},
		errs:  map[string]error{"aaaa": stt.ErrTranscriptionFailed},
	}
	cl := &fakeClassifier{results: map[string]models.IntentResult{
		"what sizes do you have": {Intent: models.IntentSizeInquiry, Confidence: 0.95, ResponseNeeded: true},
	}}

	o := newOrchestrator(t, 4, tr, cl, nil)
	merged, err := o.ProcessUtterance(context.Background(), "call-1", wavBuffer("aaaabbbb"))
	if err != nil {
		t.Fatalf("ProcessUtterance: %v", err)
	}
	if merged == nil {
		t.Fatal("expected merged result despite failed segment")
	}
	if merged.SegmentCount != 1 {
		t.Errorf("expected 1 usable segment, got %d", merged.SegmentCount)
	}
	if merged.Intent != models.IntentSizeInquiry {
		t.Errorf("expected size_inquiry, got %s", merged.Intent)
	}
}

func TestProcessUtterance_NoUsableSpeech(t *testing.T) {
	tr := &fakeTranscriber{texts: map[string]string{}}
	o := newOrchestrator(t, 4, tr, &fakeClassifier{}, nil)

	merged, err := o.ProcessUtterance(context.Background(), "call-1", wavBuffer("aaaa"))
	if err != nil {
		t.Fatalf("ProcessUtterance: %v", err)
	}
	if merged != nil {
		t.Errorf("expected nil for silent utterance, got %+v", merged)
	}
}

func TestProcessUtterance_EmptyBuffer(t *testing.T) {
	o := newOrchestrator(t, 4, &fakeTranscriber{}, &fakeClassifier{}, nil)

	merged, err := o.ProcessUtterance(context.Background(), "call-1", nil)
	if err != nil {
		t.Fatalf("ProcessUtterance: %v", err)
	}
	if merged != nil {
		t.Errorf("expected nil for empty buffer, got %+v", merged)
	}
}

func TestProcessUtterance_FormatError(t *testing.T) {
	tr := &fakeTranscriber{}
	o := newOrchestrator(t, 4, tr, &fakeClassifier{}, nil)

	_, err := o.ProcessUtterance(context.Background(), "call-1", []byte("not a wav file at all, but long enough to pass length"))
	var fe *segment.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *segment.FormatError, got %v", err)
	}
	if tr.calls != 0 {
		t.Errorf("expected no backend calls on format error, got %d", tr.calls)
	}
}

func TestProcessUtterance_ClassifierFailureFailsOpen(t *testing.T) {
	tr := &fakeTranscriber{texts: map[string]string{"aaaa": "mumble mumble"}}
	cl := &fakeClassifier{err: intent.ErrClassificationFailed}

	o := newOrchestrator(t, 4, tr, cl, nil)
	merged, err := o.ProcessUtterance(context.Background(), "call-1", wavBuffer("aaaa"))
	if err != nil {
		t.Fatalf("ProcessUtterance: %v", err)
	}
	if merged == nil {
		t.Fatal("expected merged result from fail-open classification")
	}
	if merged.Intent != models.IntentUnknown {
		t.Errorf("expected unknown intent, got %s", merged.Intent)
	}
	if !merged.ResponseNeeded {
		t.Error("fallback classification must still request a reply")
	}
}

func TestProcessUtterance_CanceledContext(t *testing.T) {
	tr := &fakeTranscriber{
		texts:  map[string]string{"aaaa": "hello"},
		delays: map[string]time.Duration{"aaaa": time.Second},
	}
	o := newOrchestrator(t, 4, tr, &fakeClassifier{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := o.ProcessUtterance(ctx, "call-1", wavBuffer("aaaa"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateReply_Fallback(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("backend down")}
	o := newOrchestrator(t, 4, &fakeTranscriber{}, &fakeClassifier{}, gen)

	got := o.GenerateReply(context.Background(), models.IntentPricingInquiry, "how much")
	if got == "" {
		t.Fatal("reply must never be empty")
	}
	if got != "I'd be happy to help you with that! What can I tell you about our dumpster services?" {
		t.Errorf("expected canned fallback, got %q", got)
	}
}

func TestGenerateReply_Success(t *testing.T) {
	gen := &fakeGenerator{reply: "Great question! Our 10-yard starts at $350."}
	o := newOrchestrator(t, 4, &fakeTranscriber{}, &fakeClassifier{}, gen)

	got := o.GenerateReply(context.Background(), models.IntentPricingInquiry, "how much")
	if got != gen.reply {
		t.Errorf("expected generator reply, got %q", got)
	}
}
