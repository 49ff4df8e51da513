package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rolloff-voice-gateway/internal/dialog"
	"rolloff-voice-gateway/internal/models"
	"rolloff-voice-gateway/internal/observability/logging"
	"rolloff-voice-gateway/internal/service/segment"
	"rolloff-voice-gateway/internal/telephony"
)

// maxAudioBytes bounds the audio upload size on the test endpoint.
const maxAudioBytes = 10 << 20

type handler struct {
	controller *dialog.Controller
	pipeline   dialog.Pipeline
	logger     zerolog.Logger
}

func newHandler(controller *dialog.Controller, pipeline dialog.Pipeline) *handler {
	return &handler{
		controller: controller,
		pipeline:   pipeline,
		logger:     logging.WithComponent("http"),
	}
}

// handleVoice answers the call-start webhook with the greeting TwiML.
func (h *handler) handleVoice(w http.ResponseWriter, r *http.Request) {
	callID := r.FormValue("CallSid")
	if callID == "" {
		http.Error(w, "missing CallSid", http.StatusBadRequest)
		return
	}

	directives := h.controller.HandleCallStart(r.Context(), callID)
	h.writeTwiML(w, directives)
}

// handleSpeech answers the speech-gather webhook. An empty SpeechResult
// counts as a silent turn.
func (h *handler) handleSpeech(w http.ResponseWriter, r *http.Request) {
	callID := r.FormValue("CallSid")
	if callID == "" {
		http.Error(w, "missing CallSid", http.StatusBadRequest)
		return
	}

	text := strings.TrimSpace(r.FormValue("SpeechResult"))
	confidence, _ := strconv.ParseFloat(r.FormValue("Confidence"), 64)

	var (
		directives []telephony.Directive
		err        error
	)
	if text == "" {
		directives, err = h.controller.HandleNoSpeech(r.Context(), callID)
	} else {
		directives, err = h.controller.HandleSpeech(r.Context(), callID, text, confidence)
	}
	if err != nil {
		if errors.Is(err, dialog.ErrSessionNotFound) {
			// The call already ended; answer with an empty document so the
			// gateway hangs up cleanly instead of retrying.
			h.logger.Warn().Str("callId", callID).Msg("speech for unknown session")
			h.writeTwiML(w, nil)
			return
		}
		h.logger.Error().Err(err).Str("callId", callID).Msg("speech turn failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.writeTwiML(w, directives)
}

// handleStatus consumes call status callbacks and closes ended sessions.
func (h *handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	callID := r.FormValue("CallSid")
	if callID == "" {
		http.Error(w, "missing CallSid", http.StatusBadRequest)
		return
	}

	status := r.FormValue("CallStatus")
	switch status {
	case "completed", "failed", "busy", "no-answer", "canceled":
		h.controller.HandleCallEnd(r.Context(), callID)
	default:
		h.logger.Debug().Str("callId", callID).Str("status", status).Msg("ignoring non-terminal call status")
	}

	w.WriteHeader(http.StatusNoContent)
}

type replyTestRequest struct {
	Intent   string `json:"intent"`
	UserText string `json:"userText"`
}

type replyTestResponse struct {
	Intent string `json:"intent"`
	Reply  string `json:"reply"`
}

// handleReplyTest generates a reply for an intent/text pair without a call.
func (h *handler) handleReplyTest(w http.ResponseWriter, r *http.Request) {
	var req replyTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserText == "" {
		http.Error(w, "missing userText", http.StatusBadRequest)
		return
	}

	in := models.ParseIntent(req.Intent)
	out := h.pipeline.GenerateReply(r.Context(), in, req.UserText)

	h.writeJSON(w, http.StatusOK, replyTestResponse{
		Intent: string(in),
		Reply:  out,
	})
}

type audioReplyResponse struct {
	Result *models.MergedResult `json:"result"`
	Reply  string               `json:"reply"`
}

// handleAudioReply runs a posted WAV buffer through the full pipeline
// without a call session. Used for smoke-testing the audio path.
func (h *handler) handleAudioReply(w http.ResponseWriter, r *http.Request) {
	buf, err := io.ReadAll(io.LimitReader(r.Body, maxAudioBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	callID := "test-" + uuid.New().String()
	merged, err := h.pipeline.ProcessUtterance(r.Context(), callID, buf)
	if err != nil {
		var fe *segment.FormatError
		if errors.As(err, &fe) {
			http.Error(w, fe.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Msg("audio pipeline failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := audioReplyResponse{Result: merged}
	if merged != nil && merged.ResponseNeeded {
		resp.Reply = h.pipeline.GenerateReply(r.Context(), merged.Intent, merged.Text)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) writeTwiML(w http.ResponseWriter, directives []telephony.Directive) {
	body, err := telephony.Render(directives)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render twiml")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}
