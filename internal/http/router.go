// Package http exposes the telephony webhook surface and the test API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rolloff-voice-gateway/internal/dialog"
)

// NewRouter constructs the HTTP router for the gateway.
func NewRouter(controller *dialog.Controller, pipeline dialog.Pipeline) http.Handler {
	h := newHandler(controller, pipeline)

	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// Telephony webhooks
	r.Route("/webhook", func(r chi.Router) {
		r.Post("/voice", h.handleVoice)
		r.Post("/speech", h.handleSpeech)
		r.Post("/status", h.handleStatus)
	})

	// Test API routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/reply/test", h.handleReplyTest)
		r.Post("/audio/reply", h.handleAudioReply)
	})

	return r
}
