// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Configuration is the full service configuration.
type Configuration struct {
	Service ServiceConfig
	HTTP    HTTPConfig
	Obs     ObsConfig
	STT     STTConfig
	Intent  BackendConfig
	Reply   BackendConfig
	Segment SegmentConfig
	Dialog  DialogConfig
	Kafka   KafkaConfig
}

// ServiceConfig identifies the service instance.
type ServiceConfig struct {
	Principal string
	Env       string
	LogLevel  string
}

// HTTPConfig configures the public HTTP listener.
type HTTPConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// ObsConfig configures the observability listener (metrics + health).
type ObsConfig struct {
	Port string
}

// STTConfig configures the speech-to-text capability.
type STTConfig struct {
	Provider       string // "openai", "google" or "mock"
	Endpoint       string
	APIKey         string
	Model          string
	LanguageCode   string
	SampleRateHz   int
	RequestTimeout time.Duration
}

// BackendConfig configures a chat-model backed capability
// (intent classification or reply generation).
type BackendConfig struct {
	Provider       string // "chat" or "mock"
	Endpoint       string
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

// SegmentConfig configures audio segmentation.
type SegmentConfig struct {
	SizeBytes int
}

// DialogConfig configures the call-level dialog state machine.
type DialogConfig struct {
	// MaxSilentTurns bounds consecutive no-speech turns before the call
	// is politely abandoned.
	MaxSilentTurns   int
	ListenTimeoutSec int
}

// KafkaConfig configures the downstream event publisher.
type KafkaConfig struct {
	Enabled         bool
	Brokers         []string
	TopicTranscript string
	TopicTurn       string
	Principal       string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Configuration {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-rolloff-voice")
	return &Configuration{
		Service: ServiceConfig{
			Principal: principal,
			Env:       envOrDefault("ENV", "dev"),
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Port:            envOrDefault("HTTP_PORT", "3000"),
			ShutdownTimeout: envDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Obs: ObsConfig{
			Port: envOrDefault("OBS_PORT", "9090"),
		},
		STT: STTConfig{
			Provider:       envOrDefault("STT_PROVIDER", "mock"),
			Endpoint:       envOrDefault("STT_ENDPOINT", "https://api.openai.com/v1"),
			APIKey:         os.Getenv("STT_API_KEY"),
			Model:          envOrDefault("STT_MODEL", "whisper-1"),
			LanguageCode:   envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			SampleRateHz:   envInt("STT_SAMPLE_RATE_HZ", 8000),
			RequestTimeout: envDuration("STT_REQUEST_TIMEOUT", 15*time.Second),
		},
		Intent: BackendConfig{
			Provider:       envOrDefault("INTENT_PROVIDER", "mock"),
			Endpoint:       envOrDefault("INTENT_ENDPOINT", "https://api.openai.com/v1"),
			APIKey:         os.Getenv("INTENT_API_KEY"),
			Model:          envOrDefault("INTENT_MODEL", "gpt-4o-mini"),
			RequestTimeout: envDuration("INTENT_REQUEST_TIMEOUT", 10*time.Second),
		},
		Reply: BackendConfig{
			Provider:       envOrDefault("REPLY_PROVIDER", "mock"),
			Endpoint:       envOrDefault("REPLY_ENDPOINT", "https://api.openai.com/v1"),
			APIKey:         os.Getenv("REPLY_API_KEY"),
			Model:          envOrDefault("REPLY_MODEL", "gpt-4o-mini"),
			RequestTimeout: envDuration("REPLY_REQUEST_TIMEOUT", 10*time.Second),
		},
		Segment: SegmentConfig{
			SizeBytes: envInt("SEGMENT_SIZE_BYTES", 16*1024),
		},
		Dialog: DialogConfig{
			MaxSilentTurns:   envInt("DIALOG_MAX_SILENT_TURNS", 3),
			ListenTimeoutSec: envInt("DIALOG_LISTEN_TIMEOUT_SEC", 5),
		},
		Kafka: KafkaConfig{
			Enabled:         envBool("KAFKA_ENABLED", false),
			Brokers:         envList("KAFKA_BROKERS"),
			TopicTranscript: envOrDefault("KAFKA_TOPIC_TRANSCRIPT", "call.transcript.merged"),
			TopicTurn:       envOrDefault("KAFKA_TOPIC_TURN", "call.turn.completed"),
			Principal:       principal,
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
