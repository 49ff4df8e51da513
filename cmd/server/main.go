package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"rolloff-voice-gateway/internal/app"
	"rolloff-voice-gateway/internal/config"
	"rolloff-voice-gateway/internal/dialog"
	"rolloff-voice-gateway/internal/events"
	gatewayhttp "rolloff-voice-gateway/internal/http"
	"rolloff-voice-gateway/internal/observability"
	"rolloff-voice-gateway/internal/service/intent"
	"rolloff-voice-gateway/internal/service/pipeline"
	"rolloff-voice-gateway/internal/service/reply"
	"rolloff-voice-gateway/internal/service/segment"
	"rolloff-voice-gateway/internal/service/stt"
	googlestt "rolloff-voice-gateway/internal/service/stt/google"
	mockstt "rolloff-voice-gateway/internal/service/stt/mock"
	openaistt "rolloff-voice-gateway/internal/service/stt/openai"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on environment")
	}

	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		application.Logger.Fatal().Err(err).Msg("Startup failed")
	}

	ctx := context.Background()

	publisher := events.New(&events.Config{
		Enabled:         cfg.Kafka.Enabled,
		Brokers:         cfg.Kafka.Brokers,
		TopicTranscript: cfg.Kafka.TopicTranscript,
		TopicTurn:       cfg.Kafka.TopicTurn,
		Principal:       cfg.Kafka.Principal,
	})
	defer publisher.Close()

	transcriber, err := newTranscriber(ctx, cfg)
	if err != nil {
		application.Logger.Fatal().Err(err).Msg("Failed to create transcriber")
	}
	classifier := newClassifier(cfg)
	generator := newGenerator(cfg)

	orchestrator := pipeline.New(
		pipeline.Config{
			Language:       cfg.STT.LanguageCode,
			BackendTimeout: cfg.STT.RequestTimeout,
		},
		segment.NewSplitter(cfg.Segment.SizeBytes),
		transcriber,
		classifier,
		generator,
		nil,
	)

	controller := dialog.New(
		dialog.Config{
			MaxSilentTurns:   cfg.Dialog.MaxSilentTurns,
			ListenTimeoutSec: cfg.Dialog.ListenTimeoutSec,
			TopicTranscript:  cfg.Kafka.TopicTranscript,
			TopicTurn:        cfg.Kafka.TopicTurn,
		},
		orchestrator,
		classifier,
		publisher,
		nil,
	)

	obsServer := observability.NewServer(":" + cfg.Obs.Port)
	obsServer.Start()

	server := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: gatewayhttp.NewRouter(controller, orchestrator),
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Voice gateway listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Observability server shutdown error")
	}
	application.Shutdown()
}

// newTranscriber selects the speech-to-text backend from configuration.
func newTranscriber(ctx context.Context, cfg *config.Configuration) (stt.Transcriber, error) {
	switch cfg.STT.Provider {
	case "openai":
		return openaistt.New(openaistt.Config{
			Endpoint: cfg.STT.Endpoint,
			APIKey:   cfg.STT.APIKey,
			Model:    cfg.STT.Model,
			Timeout:  cfg.STT.RequestTimeout,
		})
	case "google":
		return googlestt.New(ctx, cfg.STT.SampleRateHz)
	case "mock":
		return mockstt.New(), nil
	default:
		return nil, fmt.Errorf("unknown STT provider %q", cfg.STT.Provider)
	}
}

// newClassifier selects the intent classification backend.
func newClassifier(cfg *config.Configuration) intent.Classifier {
	if cfg.Intent.Provider == "chat" {
		return intent.NewChatClassifier(intent.Config{
			Endpoint: cfg.Intent.Endpoint,
			APIKey:   cfg.Intent.APIKey,
			Model:    cfg.Intent.Model,
			Timeout:  cfg.Intent.RequestTimeout,
		})
	}
	return intent.NewMock()
}

// newGenerator selects the reply generation backend.
func newGenerator(cfg *config.Configuration) reply.Generator {
	if cfg.Reply.Provider == "chat" {
		return reply.NewChatGenerator(reply.Config{
			Endpoint: cfg.Reply.Endpoint,
			APIKey:   cfg.Reply.APIKey,
			Model:    cfg.Reply.Model,
			Timeout:  cfg.Reply.RequestTimeout,
		})
	}
	return reply.NewMock()
}
