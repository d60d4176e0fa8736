package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRouterMethodNotAllowed(t *testing.T) {
	r := NewRouter(discard(), 0)
	r.Post("/api/claude", func(w http.ResponseWriter, r *http.Request) {})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, "/api/claude", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
		var body ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Method not allowed", body.Message)
	}
}

func TestRouterRecoversPanics(t *testing.T) {
	r := NewRouter(discard(), 0)
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Prompt string `json:"prompt" validate:"required"`
	}

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"prompt":"pizza"}`, false},
		{"missing field", `{}`, true},
		{"empty field", `{"prompt":""}`, true},
		{"malformed", `{prompt`, true},
		{"too large", `{"prompt":"` + strings.Repeat("a", 200) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst body
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			err := DecodeJSON(httptest.NewRecorder(), req, 100, &dst)
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestValidationMessage(t *testing.T) {
	type body struct {
		Topic string `validate:"required"`
	}
	err := Validator.Struct(body{})
	assert.Equal(t, "Topic failed required", ValidationMessage(err))
	assert.Equal(t, "invalid payload", ValidationMessage(errors.New("eof")))
}

func TestRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.NotEmpty(t, RequestID(req))

	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r)
		assert.Equal(t, middleware.GetReqID(r.Context()), seen)
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEmpty(t, seen)
}

func TestFailWritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(discard(), rec, "invalid story id", errors.New("bad uuid"), http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"invalid story id"}`, rec.Body.String())
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler(discard())(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServeHealthStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ServeHealth(ctx, discard(), 0, "test")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("health server did not stop after cancel")
	}
}

func TestServeReturnsListenError(t *testing.T) {
	err := Serve(context.Background(), &http.Server{Addr: "not-an-address"})
	assert.Error(t, err)
}
