// Package openai provides a whisper-style HTTP transcription provider.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"rolloff-voice-gateway/internal/service/stt"
)

// Config holds transcription backend configuration.
type Config struct {
	Endpoint string // base URL, e.g. https://api.openai.com/v1
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Adapter implements stt.Transcriber against an OpenAI-compatible
// audio transcription endpoint.
type Adapter struct {
	cfg    Config
	client *http.Client
}

// New creates a new transcription adapter.
func New(cfg Config) (*Adapter, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &Adapter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio segment as a multipart form and returns the
// recognized text. Backend failures are wrapped as stt.ErrTranscriptionFailed
// so the pipeline can skip the segment without aborting the utterance.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, language string) (stt.Result, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	fw, err := mw.CreateFormFile("file", "segment.wav")
	if err != nil {
		return stt.Result{}, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return stt.Result{}, fmt.Errorf("write audio payload: %w", err)
	}
	if err := mw.WriteField("model", a.cfg.Model); err != nil {
		return stt.Result{}, fmt.Errorf("write model field: %w", err)
	}
	if language != "" {
		// Whisper expects bare ISO-639-1 codes, not BCP-47 tags.
		if err := mw.WriteField("language", shortLanguage(language)); err != nil {
			return stt.Result{}, fmt.Errorf("write language field: %w", err)
		}
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return stt.Result{}, fmt.Errorf("write response_format field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return stt.Result{}, fmt.Errorf("finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint+"/audio/transcriptions", body)
	if err != nil {
		return stt.Result{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if a.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return stt.Result{}, fmt.Errorf("%w: %v", stt.ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return stt.Result{}, fmt.Errorf("%w: status=%d body=%s",
			stt.ErrTranscriptionFailed, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out transcriptionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return stt.Result{}, fmt.Errorf("%w: decode response: %v", stt.ErrTranscriptionFailed, err)
	}

	// The endpoint does not report confidence; treat recognized text as
	// fully confident and let the classifier supply its own score.
	return stt.Result{Text: out.Text, Confidence: 1.0}, nil
}

func shortLanguage(code string) string {
	if i := strings.IndexByte(code, '-'); i > 0 {
		return code[:i]
	}
	return code
}
