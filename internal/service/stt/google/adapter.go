// Package google provides a Google Cloud Speech-to-Text provider.
package google

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"rolloff-voice-gateway/internal/service/stt"
)

// Adapter implements stt.Transcriber using Google Cloud Speech-to-Text.
type Adapter struct {
	client       *speech.Client
	sampleRateHz int
}

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, sampleRateHz int) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if sampleRateHz <= 0 {
		sampleRateHz = 8000
	}
	return &Adapter{client: c, sampleRateHz: sampleRateHz}, nil
}

// Transcribe runs one unary recognition request for the segment.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, language string) (stt.Result, error) {
	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(a.sampleRateHz),
			LanguageCode:    language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		if transient(err) {
			return stt.Result{}, fmt.Errorf("%w: %v", stt.ErrTranscriptionFailed, err)
		}
		return stt.Result{}, err
	}

	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		return stt.Result{Text: alt.Transcript, Confidence: float64(alt.Confidence)}, nil
	}

	// No speech detected.
	return stt.Result{}, nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// transient reports whether the failure is worth treating as a skipped
// segment rather than a hard error.
func transient(err error) bool {
	switch status.Code(err) {
	case codes.DeadlineExceeded, codes.Unavailable, codes.ResourceExhausted, codes.Aborted, codes.Internal:
		return true
	}
	return false
}
