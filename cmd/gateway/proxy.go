package main

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"verhalen-machine/internal/app"
	"verhalen-machine/internal/config"
	"verhalen-machine/internal/httputil"
	"verhalen-machine/internal/metrics"
	"verhalen-machine/internal/sanitize"
	"verhalen-machine/internal/upstream"
)

type completionRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type speechRequest struct {
	Text string `json:"text" validate:"required"`
}

// completionHandler forwards one sanitized prompt to the LLM and relays the result.
func completionHandler(deps app.Deps) http.HandlerFunc {
	service := deps.Config.LLMProvider
	keyConfigured := llmKeyConfigured(deps.Config)

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := httputil.RequestID(r)
		log := deps.Log.With("request_id", reqID)
		log.Info("LLM request started")

		var req completionRequest
		if err := httputil.DecodeJSON(w, r, deps.Config.MaxBodySize, &req); err != nil {
			log.Warn("no prompt provided", "reason", httputil.ValidationMessage(err), "err", err)
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Message: "Prompt is required"})
			return
		}

		prompt := sanitize.Text(req.Prompt)
		if prompt == "" {
			log.Warn("prompt became empty after sanitization", "original_length", len(req.Prompt))
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Message: "Prompt contains invalid characters"})
			return
		}

		log.Info("prompt sanitized",
			"original_length", len(req.Prompt),
			"sanitized_length", len(prompt),
			"preview", upstream.Truncate(prompt, 100),
			"api_key_configured", keyConfigured,
		)
		if !deps.Config.Production() {
			log.Debug("upstream prompt", "prompt", prompt)
		}

		text, err := deps.LLM.Complete(r.Context(), prompt)
		elapsed := time.Since(start)
		if err != nil {
			relayFailure(w, log, service, "LLM API error", reqID, err, elapsed)
			return
		}

		metrics.ObserveUpstream(service, http.StatusOK, elapsed)
		log.Info("LLM request succeeded", "response_length", len(text), "duration_ms", elapsed.Milliseconds())
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"response": text})
	}
}

// speechHandler forwards text to the synthesizer and returns base64 audio.
func speechHandler(deps app.Deps) http.HandlerFunc {
	keyConfigured := deps.Config.ElevenLabsKey != ""

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := httputil.RequestID(r)
		log := deps.Log.With("request_id", reqID)

		var req speechRequest
		if err := httputil.DecodeJSON(w, r, deps.Config.MaxBodySize, &req); err != nil || strings.TrimSpace(req.Text) == "" {
			log.Warn("no text provided", "reason", validationReason(err), "err", err)
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Message: "Text is required"})
			return
		}

		log.Info("TTS request started", "text_length", len(req.Text), "api_key_configured", keyConfigured)
		audio, err := deps.TTS.Synthesize(r.Context(), req.Text)
		elapsed := time.Since(start)
		if err != nil {
			relayFailure(w, log, "elevenlabs", "TTS API error", reqID, err, elapsed)
			return
		}

		metrics.ObserveUpstream("elevenlabs", http.StatusOK, elapsed)
		log.Info("TTS request succeeded", "bytes", len(audio.Data), "duration_ms", elapsed.Milliseconds())
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"audio":       base64.StdEncoding.EncodeToString(audio.Data),
			"contentType": audio.ContentType,
		})
	}
}

// relayFailure passes an upstream status and body through unchanged; anything
// else becomes a generic 500.
func relayFailure(w http.ResponseWriter, log *slog.Logger, service, message, reqID string, err error, elapsed time.Duration) {
	if upErr, ok := upstream.As(err); ok {
		metrics.ObserveUpstream(service, upErr.StatusCode, elapsed)
		log.Error(message,
			"status", upErr.StatusCode,
			"body", upstream.Truncate(string(upErr.Body), 500),
			"duration_ms", elapsed.Milliseconds(),
		)
		httputil.WriteJSON(w, upErr.StatusCode, httputil.ErrorBody{
			Message:   message,
			Error:     upErr.Payload(),
			RequestID: reqID,
		})
		return
	}

	metrics.ObserveUpstream(service, 0, elapsed)
	log.Error("upstream call failed", "service", service, "err", err, "duration_ms", elapsed.Milliseconds())
	httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorBody{
		Message:   "Internal server error",
		Error:     err.Error(),
		RequestID: reqID,
	})
}

func llmKeyConfigured(cfg config.Config) bool {
	if cfg.LLMProvider == "openai" {
		return cfg.OpenAIKey != ""
	}
	return cfg.AnthropicKey != ""
}

// validationReason is ValidationMessage for handlers that also reject blank
// values after a successful decode.
func validationReason(err error) string {
	if err == nil {
		return "blank value"
	}
	return httputil.ValidationMessage(err)
}
