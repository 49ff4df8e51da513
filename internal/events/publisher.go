// Package events publishes call results downstream.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"rolloff-voice-gateway/internal/observability/metrics"
)

// Publisher publishes call events to separate Kafka topics: merged
// utterance transcripts and completed dialog turns.
type Publisher struct {
	writerTranscript *kafka.Writer
	writerTurn       *kafka.Writer
	principal        string
	topicTranscript  string
	topicTurn        string
	enabled          bool
	metrics          *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers         []string
	TopicTranscript string
	TopicTurn       string
	Principal       string
	Enabled         bool
}

// New creates a Kafka event publisher with separate topics for transcripts
// and turn summaries. With Kafka disabled the publisher logs events only,
// which keeps local development credential-free.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:       cfg.Principal,
			topicTranscript: cfg.TopicTranscript,
			topicTurn:       cfg.TopicTurn,
			enabled:         false,
			metrics:         m,
		}
	}

	// Longer dial timeouts help DNS resolution inside Kubernetes.
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerTranscript := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicTranscript,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerTurn := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicTurn,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicTranscript", cfg.TopicTranscript).
		Str("topicTurn", cfg.TopicTurn).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerTranscript: writerTranscript,
		writerTurn:       writerTurn,
		principal:        cfg.Principal,
		topicTranscript:  cfg.TopicTranscript,
		topicTurn:        cfg.TopicTurn,
		enabled:          true,
		metrics:          m,
	}
}

// PublishTranscript publishes a merged utterance transcript event.
func (p *Publisher) PublishTranscript(ctx context.Context, callID string, event any) error {
	return p.publish(ctx, p.writerTranscript, p.topicTranscript, "transcript", callID, event)
}

// PublishTurn publishes a completed dialog turn event.
func (p *Publisher) PublishTurn(ctx context.Context, callID string, event any) error {
	return p.publish(ctx, p.writerTurn, p.topicTurn, "turn", callID, event)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(topic)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerTranscript != nil {
		if e := p.writerTranscript.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing transcript writer")
			err = e
		}
	}
	if p.writerTurn != nil {
		if e := p.writerTurn.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing turn writer")
			err = e
		}
	}
	return err
}
