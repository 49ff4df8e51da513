package mock

import (
	"context"
	"testing"
)

func TestTranscribe_CyclesScript(t *testing.T) {
	a := NewScripted([]ScriptedUtterance{
		{Text: "first", Confidence: 0.9},
		{Text: "second", Confidence: 0.8},
	})

	ctx := context.Background()

	r1, err := a.Transcribe(ctx, []byte("audio"), "en-US")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	r2, _ := a.Transcribe(ctx, nil, "en-US")
	r3, _ := a.Transcribe(ctx, nil, "en-US")

	if r1.Text != "first" || r2.Text != "second" || r3.Text != "first" {
		t.Errorf("unexpected cycle: %q %q %q", r1.Text, r2.Text, r3.Text)
	}
	if r1.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", r1.Confidence)
	}
}

func TestTranscribe_EmptyScript(t *testing.T) {
	a := NewScripted(nil)
	r, err := a.Transcribe(context.Background(), nil, "en-US")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if r.Text != "" {
		t.Errorf("expected empty text, got %q", r.Text)
	}
}

func TestTranscribe_CanceledContext(t *testing.T) {
	a := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.Transcribe(ctx, nil, "en-US"); err == nil {
		t.Error("expected context error")
	}
}
