package dialog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rolloff-voice-gateway/internal/events"
	"rolloff-voice-gateway/internal/models"
	"rolloff-voice-gateway/internal/observability/logging"
	"rolloff-voice-gateway/internal/observability/metrics"
	"rolloff-voice-gateway/internal/service/intent"
	"rolloff-voice-gateway/internal/telephony"
)

const (
	greetingText = "Hello and welcome to E-Z Rolloff! Thank you for calling us today. " +
		"We're here to help with all your rolloff dumpster needs. How can we assist you today? " +
		"You can ask about our pricing, service areas, or if you're ready, we can take your order right now."
	silencePromptText = "I didn't catch that. Could you say it again? " +
		"You can ask about pricing, service areas, or placing an order."
	abandonText  = "It seems we got disconnected. Please call us back anytime. Goodbye!"
	farewellText = "Thanks for calling E-Z Rolloff. Have a great day. Goodbye!"
)

// Pipeline is the utterance-processing capability the controller drives.
type Pipeline interface {
	ProcessUtterance(ctx context.Context, callID string, buf []byte) (*models.MergedResult, error)
	GenerateReply(ctx context.Context, in models.Intent, text string) string
}

// Config holds dialog controller tunables.
type Config struct {
	MaxSilentTurns   int
	ListenTimeoutSec int
	SpeechAction     string
	TopicTranscript  string
	TopicTurn        string
}

// Controller runs the call dialog state machine. Each webhook delivery maps
// to one method; every method returns the directives the gateway should
// speak next.
type Controller struct {
	cfg        Config
	sessions   *Registry
	pipeline   Pipeline
	classifier intent.Classifier
	publisher  *events.Publisher
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// New constructs a dialog controller.
func New(cfg Config, pipeline Pipeline, classifier intent.Classifier, publisher *events.Publisher, m *metrics.Metrics) *Controller {
	if cfg.MaxSilentTurns <= 0 {
		cfg.MaxSilentTurns = 3
	}
	if cfg.ListenTimeoutSec <= 0 {
		cfg.ListenTimeoutSec = 5
	}
	if cfg.SpeechAction == "" {
		cfg.SpeechAction = "/webhook/speech"
	}
	if cfg.TopicTranscript == "" {
		cfg.TopicTranscript = "call.transcript.merged"
	}
	if cfg.TopicTurn == "" {
		cfg.TopicTurn = "call.turn.completed"
	}
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Controller{
		cfg:        cfg,
		sessions:   NewRegistry(),
		pipeline:   pipeline,
		classifier: classifier,
		publisher:  publisher,
		metrics:    m,
		logger:     logging.WithComponent("dialog"),
	}
}

// Sessions exposes the registry for readiness reporting.
func (c *Controller) Sessions() *Registry {
	return c.sessions
}

// HandleCallStart opens a session and greets the caller.
func (c *Controller) HandleCallStart(ctx context.Context, callID string) []telephony.Directive {
	s := c.sessions.Create(callID)
	c.metrics.RecordCallStart()

	s.mu.Lock()
	s.State = StateListening
	s.mu.Unlock()

	c.logger.Info().Str("callId", callID).Int("active", c.sessions.Len()).Msg("call started")

	return []telephony.Directive{
		telephony.Say{Text: greetingText},
		c.listen(),
	}
}

// HandleSpeech processes gateway-recognized speech for one turn. The text is
// classified and answered; a goodbye intent ends the call.
func (c *Controller) HandleSpeech(ctx context.Context, callID, text string, confidence float64) ([]telephony.Directive, error) {
	s, err := c.sessions.Get(callID)
	if err != nil {
		return nil, err
	}

	logger := logging.WithCall(callID)

	ir, err := c.classifier.Classify(ctx, text)
	if err != nil {
		// Fail-open: the fallback result still drives a reply.
		logger.Warn().Err(err).Msg("turn classification failed, using fallback intent")
	}

	logger.Debug().
		Str("intent", string(ir.Intent)).
		Float64("confidence", ir.Confidence).
		Float64("gatewayConfidence", confidence).
		Msg("turn classified")

	return c.respond(ctx, s, ir.Intent, text, ir.ResponseNeeded)
}

// HandleAudio processes a raw audio utterance for one turn. Format errors
// propagate to the caller; an utterance with no usable speech counts as a
// silent turn.
func (c *Controller) HandleAudio(ctx context.Context, callID string, buf []byte) ([]telephony.Directive, error) {
	s, err := c.sessions.Get(callID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.State = StateProcessing
	s.mu.Unlock()

	merged, err := c.pipeline.ProcessUtterance(ctx, callID, buf)
	if err != nil {
		s.mu.Lock()
		s.State = StateListening
		s.mu.Unlock()
		return nil, err
	}
	if merged == nil {
		return c.HandleNoSpeech(ctx, callID)
	}

	c.publishTranscript(ctx, callID, merged)

	return c.respond(ctx, s, merged.Intent, merged.Text, merged.ResponseNeeded)
}

// HandleNoSpeech records a silent turn. The caller is reprompted until the
// silent-turn budget is exhausted, then the call is ended politely.
func (c *Controller) HandleNoSpeech(ctx context.Context, callID string) ([]telephony.Directive, error) {
	s, err := c.sessions.Get(callID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.SilentTurns++
	s.TurnCount++
	silent := s.SilentTurns
	s.mu.Unlock()

	c.metrics.RecordTurn(true)
	logger := logging.WithCall(callID)

	if silent >= c.cfg.MaxSilentTurns {
		logger.Info().Int("silentTurns", silent).Msg("silent-turn budget exhausted, ending call")
		c.metrics.RecordCallAbandoned()
		c.endSession(s)
		return []telephony.Directive{
			telephony.Say{Text: abandonText},
			telephony.Hangup{},
		}, nil
	}

	logger.Debug().Int("silentTurns", silent).Msg("silent turn, reprompting")
	s.mu.Lock()
	s.State = StateListening
	s.mu.Unlock()

	return []telephony.Directive{
		telephony.Say{Text: silencePromptText},
		c.listen(),
	}, nil
}

// HandleCallEnd closes the session when the gateway reports the call over.
// Unknown call IDs are ignored; status callbacks can arrive after hangup.
func (c *Controller) HandleCallEnd(ctx context.Context, callID string) {
	s, err := c.sessions.Get(callID)
	if err != nil {
		return
	}
	c.endSession(s)
	logger := logging.WithCall(callID)
	logger.Info().Msg("call ended")
}

// respond completes one spoken turn: generate a reply, publish the turn
// event, and decide whether to keep listening or hang up.
func (c *Controller) respond(ctx context.Context, s *Session, in models.Intent, text string, responseNeeded bool) ([]telephony.Directive, error) {
	s.mu.Lock()
	s.State = StateResponding
	s.SilentTurns = 0
	s.TurnCount++
	s.LastIntent = in
	turn := s.TurnCount
	s.mu.Unlock()

	c.metrics.RecordTurn(false)

	var replyText string
	if responseNeeded {
		replyText = c.pipeline.GenerateReply(ctx, in, text)
	}

	c.publishTurn(ctx, s.CallID, turn, in, text, replyText)

	if in == models.IntentGoodbye {
		c.endSession(s)
		directives := []telephony.Directive{}
		if replyText != "" {
			directives = append(directives, telephony.Say{Text: replyText})
		} else {
			directives = append(directives, telephony.Say{Text: farewellText})
		}
		return append(directives, telephony.Hangup{}), nil
	}

	s.mu.Lock()
	s.State = StateListening
	s.mu.Unlock()

	directives := []telephony.Directive{}
	if replyText != "" {
		directives = append(directives, telephony.Say{Text: replyText}, telephony.Pause{Seconds: 1})
	}
	return append(directives, c.listen()), nil
}

func (c *Controller) listen() telephony.Directive {
	return telephony.Listen{Action: c.cfg.SpeechAction, TimeoutSec: c.cfg.ListenTimeoutSec}
}

func (c *Controller) endSession(s *Session) {
	s.mu.Lock()
	alreadyEnded := s.State.Terminal()
	s.State = StateEnded
	s.mu.Unlock()

	if !alreadyEnded {
		c.metrics.RecordCallEnd(s.Duration().Seconds())
	}
	c.sessions.Remove(s.CallID)
}

func (c *Controller) publishTranscript(ctx context.Context, callID string, merged *models.MergedResult) {
	if c.publisher == nil {
		return
	}
	event := models.CallTranscriptEvent{
		EventType:    c.cfg.TopicTranscript,
		CallID:       callID,
		Text:         merged.Text,
		Intent:       merged.Intent,
		Confidence:   merged.Confidence,
		SegmentCount: merged.SegmentCount,
		Timestamp:    time.Now().UnixMilli(),
	}
	if err := c.publisher.PublishTranscript(ctx, callID, event); err != nil {
		logger := logging.WithCall(callID)
		logger.Error().Err(err).Msg("failed to publish transcript event")
	}
}

func (c *Controller) publishTurn(ctx context.Context, callID string, turn int, in models.Intent, callerText, replyText string) {
	if c.publisher == nil {
		return
	}
	event := models.CallTurnEvent{
		EventType:  c.cfg.TopicTurn,
		CallID:     callID,
		TurnID:     uuid.New().String(),
		Turn:       turn,
		Intent:     in,
		CallerText: callerText,
		ReplyText:  replyText,
		Timestamp:  time.Now().UnixMilli(),
	}
	if err := c.publisher.PublishTurn(ctx, callID, event); err != nil {
		logger := logging.WithCall(callID)
		logger.Error().Err(err).Msg("failed to publish turn event")
	}
}
