package dialog

import (
	"context"
	"errors"
	"testing"

	"rolloff-voice-gateway/internal/models"
	"rolloff-voice-gateway/internal/telephony"
)

// fakePipeline returns canned merged results keyed by call ID and a fixed
// reply for every intent.
type fakePipeline struct {
	merged map[string]*models.MergedResult
	err    error
	reply  string
}

func (f *fakePipeline) ProcessUtterance(ctx context.Context, callID string, buf []byte) (*models.MergedResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.merged[callID], nil
}

func (f *fakePipeline) GenerateReply(ctx context.Context, in models.Intent, text string) string {
	return f.reply
}

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

func newController(t *testing.T, p *fakePipeline, cl *fakeClassifier) *Controller {
	t.Helper()
	if p == nil {
		p = &fakePipeline{reply: "Our 10-yard dumpster starts at $350 for a week."}
	}
	if cl == nil {
		cl = &fakeClassifier{results: map[string]models.IntentResult{}}
	}
	return New(Config{MaxSilentTurns: 3, ListenTimeoutSec: 5}, p, cl, nil, nil)
}

func directiveTypes(ds []telephony.Directive) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		switch d.(type) {
		case telephony.Say:
			out = append(out, "say")
		case telephony.Pause:
			out = append(out, "pause")
		case telephony.Listen:
			out = append(out, "listen")
		case telephony.Hangup:
			out = append(out, "hangup")
		}
	}
	return out
}

func assertDirectives(t *testing.T, got []telephony.Directive, want ...string) {
	t.Helper()
	types := directiveTypes(got)
	if len(types) != len(want) {
		t.Fatalf("expected directives %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected directives %v, got %v", want, types)
		}
	}
}

func TestHandleCallStart_GreetsAndListens(t *testing.T) {
	c := newController(t, nil, nil)

	ds := c.HandleCallStart(context.Background(), "call-1")
	assertDirectives(t, ds, "say", "listen")

	say := ds[0].(telephony.Say)
	if say.Text == "" {
		t.Error("greeting must not be empty")
	}

	s, err := c.Sessions().Get("call-1")
	if err != nil {
		t.Fatalf("session missing after call start: %v", err)
	}
	state, _, _, _ := s.Snapshot()
	if state != StateListening {
		t.Errorf("expected listening state, got %s", state)
	}
}

func TestHandleSpeech_PricingTurn(t *testing.T) {
	cl := &fakeClassifier{results: map[string]models.IntentResult{
		"how much for a dumpster": {Intent: models.IntentPricingInquiry, Confidence: 0.92, ResponseNeeded: true},
	}}
	p := &fakePipeline{reply: "Our 10-yard dumpster starts at $350 for a week, including delivery and pickup."}
	c := newController(t, p, cl)
	c.HandleCallStart(context.Background(), "call-1")

	ds, err := c.HandleSpeech(context.Background(), "call-1", "how much for a dumpster", 0.9)
	if err != nil {
		t.Fatalf("HandleSpeech: %v", err)
	}
	assertDirectives(t, ds, "say", "pause", "listen")

	if say := ds[0].(telephony.Say); say.Text != p.reply {
		t.Errorf("expected generated reply, got %q", say.Text)
	}

	s, _ := c.Sessions().Get("call-1")
	state, turns, silent, lastIntent := s.Snapshot()
	if state != StateListening {
		t.Errorf("expected listening after reply, got %s", state)
	}
	if turns != 1 {
		t.Errorf("expected 1 turn, got %d", turns)
	}
	if silent != 0 {
		t.Errorf("expected silent counter reset, got %d", silent)
	}
	if lastIntent != models.IntentPricingInquiry {
		t.Errorf("expected pricing_inquiry recorded, got %s", lastIntent)
	}
}

func TestHandleSpeech_GoodbyeHangsUp(t *testing.T) {
	cl := &fakeClassifier{results: map[string]models.IntentResult{
		"goodbye": {Intent: models.IntentGoodbye, Confidence: 0.97, ResponseNeeded: true},
	}}
	p := &fakePipeline{reply: "Thanks for calling E-Z Rolloff. Goodbye!"}
	c := newController(t, p, cl)
	c.HandleCallStart(context.Background(), "call-1")

	ds, err := c.HandleSpeech(context.Background(), "call-1", "goodbye", 0.9)
	if err != nil {
		t.Fatalf("HandleSpeech: %v", err)
	}
	assertDirectives(t, ds, "say", "hangup")

	if _, err := c.Sessions().Get("call-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("session must be removed after goodbye, got %v", err)
	}
}

func TestHandleSpeech_NoResponseNeeded(t *testing.T) {
	cl := &fakeClassifier{results: map[string]models.IntentResult{
		"uh huh": {Intent: models.IntentGeneralQuestion, Confidence: 0.4, ResponseNeeded: false},
	}}
	c := newController(t, nil, cl)
	c.HandleCallStart(context.Background(), "call-1")

	ds, err := c.HandleSpeech(context.Background(), "call-1", "uh huh", 0.5)
	if err != nil {
		t.Fatalf("HandleSpeech: %v", err)
	}
	assertDirectives(t, ds, "listen")
}

func TestHandleSpeech_UnknownCall(t *testing.T) {
	c := newController(t, nil, nil)

	_, err := c.HandleSpeech(context.Background(), "never-started", "hello", 0.9)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestHandleNoSpeech_RepromptsAndStaysLive(t *testing.T) {
	c := newController(t, nil, nil)
	c.HandleCallStart(context.Background(), "call-1")

	ds, err := c.HandleNoSpeech(context.Background(), "call-1")
	if err != nil {
		t.Fatalf("HandleNoSpeech: %v", err)
	}
	assertDirectives(t, ds, "say", "listen")

	s, err := c.Sessions().Get("call-1")
	if err != nil {
		t.Fatalf("one silent turn must not end the call: %v", err)
	}
	state, turns, silent, _ := s.Snapshot()
	if state != StateListening {
		t.Errorf("expected listening, got %s", state)
	}
	if turns != 1 || silent != 1 {
		t.Errorf("expected 1 turn / 1 silent, got %d / %d", turns, silent)
	}
}

func TestHandleNoSpeech_BudgetExhausted(t *testing.T) {
	c := newController(t, nil, nil)
	c.HandleCallStart(context.Background(), "call-1")

	var ds []telephony.Directive
	var err error
	for i := 0; i < 3; i++ {
		ds, err = c.HandleNoSpeech(context.Background(), "call-1")
		if err != nil {
			t.Fatalf("HandleNoSpeech #%d: %v", i+1, err)
		}
	}
	assertDirectives(t, ds, "say", "hangup")

	if _, err := c.Sessions().Get("call-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("session must be removed after abandonment, got %v", err)
	}
}

func TestHandleSpeech_ResetsSilentCounter(t *testing.T) {
	c := newController(t, nil, nil)
	c.HandleCallStart(context.Background(), "call-1")

	if _, err := c.HandleNoSpeech(context.Background(), "call-1"); err != nil {
		t.Fatalf("HandleNoSpeech: %v", err)
	}
	if _, err := c.HandleNoSpeech(context.Background(), "call-1"); err != nil {
		t.Fatalf("HandleNoSpeech: %v", err)
	}
	if _, err := c.HandleSpeech(context.Background(), "call-1", "what sizes do you offer", 0.8); err != nil {
		t.Fatalf("HandleSpeech: %v", err)
	}

	s, _ := c.Sessions().Get("call-1")
	_, _, silent, _ := s.Snapshot()
	if silent != 0 {
		t.Errorf("real speech must reset silent counter, got %d", silent)
	}

	// The budget is available again in full.
	for i := 0; i < 2; i++ {
		if _, err := c.HandleNoSpeech(context.Background(), "call-1"); err != nil {
			t.Fatalf("HandleNoSpeech: %v", err)
		}
	}
	if _, err := c.Sessions().Get("call-1"); err != nil {
		t.Errorf("call must survive two silent turns after reset: %v", err)
	}
}

func TestHandleAudio_MergedUtterance(t *testing.T) {
	p := &fakePipeline{
		merged: map[string]*models.MergedResult{
			"call-1": {
				Text:           "do you deliver to springfield",
				Intent:         models.IntentServiceArea,
				Confidence:     0.88,
				ResponseNeeded: true,
				SegmentCount:   2,
			},
		},
		reply: "Yes, Springfield is in our service area!",
	}
	c := newController(t, p, nil)
	c.HandleCallStart(context.Background(), "call-1")

	ds, err := c.HandleAudio(context.Background(), "call-1", []byte("audio"))
	if err != nil {
		t.Fatalf("HandleAudio: %v", err)
	}
	assertDirectives(t, ds, "say", "pause", "listen")

	s, _ := c.Sessions().Get("call-1")
	_, _, _, lastIntent := s.Snapshot()
	if lastIntent != models.IntentServiceArea {
		t.Errorf("expected service_area recorded, got %s", lastIntent)
	}
}

func TestHandleAudio_SilentUtterance(t *testing.T) {
	p := &fakePipeline{merged: map[string]*models.MergedResult{}}
	c := newController(t, p, nil)
	c.HandleCallStart(context.Background(), "call-1")

	ds, err := c.HandleAudio(context.Background(), "call-1", []byte("audio"))
	if err != nil {
		t.Fatalf("HandleAudio: %v", err)
	}
	assertDirectives(t, ds, "say", "listen")

	s, _ := c.Sessions().Get("call-1")
	_, _, silent, _ := s.Snapshot()
	if silent != 1 {
		t.Errorf("empty utterance must count as silent turn, got %d", silent)
	}
}

func TestHandleAudio_PipelineError(t *testing.T) {
	wantErr := errors.New("bad wav")
	p := &fakePipeline{err: wantErr}
	c := newController(t, p, nil)
	c.HandleCallStart(context.Background(), "call-1")

	_, err := c.HandleAudio(context.Background(), "call-1", []byte("audio"))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected pipeline error, got %v", err)
	}

	s, _ := c.Sessions().Get("call-1")
	state, _, _, _ := s.Snapshot()
	if state != StateListening {
		t.Errorf("session must return to listening after error, got %s", state)
	}
}

func TestHandleCallEnd(t *testing.T) {
	c := newController(t, nil, nil)
	c.HandleCallStart(context.Background(), "call-1")

	c.HandleCallEnd(context.Background(), "call-1")
	if c.Sessions().Len() != 0 {
		t.Errorf("expected 0 sessions, got %d", c.Sessions().Len())
	}

	// Duplicate status callbacks must be harmless.
	c.HandleCallEnd(context.Background(), "call-1")
}
