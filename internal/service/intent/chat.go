package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rolloff-voice-gateway/internal/models"
)

const systemPrompt = `You are an intent analyzer for E-Z Rolloff, a rolloff dumpster service company.
Analyze the user's speech and extract their primary intent.
Common intents include:
- pricing_inquiry: Questions about dumpster rental costs, pricing, rates
- service_area: Questions about service locations, coverage areas, delivery zones
- place_order: Customer wants to order a dumpster, book service, schedule delivery
- size_inquiry: Questions about dumpster sizes, capacity, dimensions
- delivery_timing: Questions about delivery time, scheduling, availability
- general_question: Other questions about services, policies, etc.
- greeting: Customer is just saying hello or responding to greeting
- goodbye: Customer is ending the call

Return a JSON object with 'intent' (string), 'confidence' (number 0-1), and 'response_needed' (boolean indicating if a spoken response is needed).`

// Config holds chat-model classifier configuration.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// ChatClassifier implements Classifier against an OpenAI-compatible chat
// completions endpoint.
type ChatClassifier struct {
	cfg    Config
	client *http.Client
}

// NewChatClassifier creates a chat-model backed classifier.
func NewChatClassifier(cfg Config) *ChatClassifier {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &ChatClassifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	MaxTokens      int            `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// classifierPayload is the duck-typed JSON the model returns. Pointer fields
// distinguish missing values from zero values.
type classifierPayload struct {
	Intent         string   `json:"intent"`
	Confidence     *float64 `json:"confidence"`
	ResponseNeeded *bool    `json:"response_needed"`
}

// Classify sends the text to the chat model and parses the structured
// intent. Every failure path returns the fallback result together with the
// wrapped error, never an unusable result.
func (c *ChatClassifier) Classify(ctx context.Context, text string) (models.IntentResult, error) {
	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		MaxTokens:      150,
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return models.FallbackIntentResult(), fmt.Errorf("%w: marshal request: %v", ErrClassificationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return models.FallbackIntentResult(), fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.FallbackIntentResult(), fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return models.FallbackIntentResult(), fmt.Errorf("%w: status=%d body=%s",
			ErrClassificationFailed, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return models.FallbackIntentResult(), fmt.Errorf("%w: decode response: %v", ErrClassificationFailed, err)
	}
	if out.Error != nil {
		return models.FallbackIntentResult(), fmt.Errorf("%w: %s", ErrClassificationFailed, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return models.FallbackIntentResult(), fmt.Errorf("%w: empty choices", ErrClassificationFailed)
	}

	return parsePayload(out.Choices[0].Message.Content)
}

// parsePayload validates the model's JSON at the boundary before it enters
// the pipeline's data model.
func parsePayload(content string) (models.IntentResult, error) {
	var p classifierPayload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return models.FallbackIntentResult(), fmt.Errorf("%w: unparseable payload: %v", ErrClassificationFailed, err)
	}

	result := models.IntentResult{
		Intent:         models.ParseIntent(p.Intent),
		Confidence:     0.5,
		ResponseNeeded: true,
	}
	if p.Confidence != nil {
		result.Confidence = clamp01(*p.Confidence)
	}
	if p.ResponseNeeded != nil {
		result.ResponseNeeded = *p.ResponseNeeded
	}
	return result, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
