package reply

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

const personaPrompt = `You are Sarah, a warm and friendly customer service representative for E-Z Rolloff.
You have a natural, conversational speaking style - like talking to a helpful friend.

Speaking style:
- Use natural contractions (we're, you're, I'd, that's)
- Speak conversationally, not robotically
- Use friendly phrases like "Great question!" or "Absolutely!"
- Keep responses concise but warm (2-3 sentences max)
- Vary your responses - don't sound repetitive

Company info:
- Standard rental period: 14 days
- Sizes: 10 yard, 15 yard, 20 yard dumpsters
- Competitive pricing with transparent rates
- Fast delivery and pickup service
- Serving local areas

Always be helpful, enthusiastic, and offer to assist further.`

// Config holds chat-model generator configuration.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// ChatGenerator implements Generator against an OpenAI-compatible chat
// completions endpoint, carrying the fixed persona contract.
type ChatGenerator struct {
	cfg    Config
	client *http.Client
}

// NewChatGenerator creates a chat-model backed reply generator.
func NewChatGenerator(cfg Config) *ChatGenerator {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &ChatGenerator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Reply asks the chat model for a persona-true response. Failures return
// ErrGenerationFailed-wrapped errors; callers substitute Fallback.
func (g *ChatGenerator) Reply(ctx context.Context, intent models.Intent, text string) (string, error) {
	payload := chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: personaPrompt},
			{Role: "user", Content: fmt.Sprintf("Customer intent: %s. Customer said: %q. Generate a natural, conversational response.", intent, text)},
		},
		MaxTokens:   150,
		Temperature: 0.8,
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint+"/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status=%d body=%s",
			ErrGenerationFailed, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGenerationFailed, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrGenerationFailed, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrGenerationFailed)
	}

	reply := strings.TrimSpace(out.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply", ErrGenerationFailed)
	}
	return reply, nil
}
