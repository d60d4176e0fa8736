package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"verhalen-machine/internal/app"
	"verhalen-machine/internal/httputil"
	"verhalen-machine/internal/llm"
	"verhalen-machine/internal/metrics"
	"verhalen-machine/internal/queue"
	"verhalen-machine/internal/sanitize"
	"verhalen-machine/internal/store"
	"verhalen-machine/internal/story"
)

const (
	enqueueAttempts = 3
	enqueueBackoff  = 200 * time.Millisecond
)

type storyRequest struct {
	Topic   string `json:"topic" validate:"required,max=200"`
	Narrate bool   `json:"narrate"`
}

type storyResponse struct {
	ID              string   `json:"id,omitempty"`
	Topic           string   `json:"topic"`
	Story           string   `json:"story"`
	Parts           []string `json:"parts"`
	Plan            []string `json:"plan,omitempty"`
	NarrationStatus string   `json:"narration_status,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

// sanitizingClient cleans every prompt the same way /api/claude does, so a
// server-side story sees exactly what a client-side one would.
type sanitizingClient struct {
	next llm.Client
}

func (c sanitizingClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.next.Complete(ctx, sanitize.Text(prompt))
}

func storyHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httputil.RequestID(r)
		log := deps.Log.With("request_id", reqID)

		var req storyRequest
		if err := httputil.DecodeJSON(w, r, deps.Config.MaxBodySize, &req); err != nil || strings.TrimSpace(req.Topic) == "" {
			log.Warn("no topic provided", "reason", validationReason(err), "err", err)
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Message: "Topic is required"})
			return
		}

		gen := story.New(sanitizingClient{next: deps.LLM}, story.WithLogger(log))
		s, err := gen.Generate(r.Context(), req.Topic)
		if err != nil {
			metrics.StoryGenerated("failed")
			log.Error("story generation failed", "topic", req.Topic, "err", err)
			httputil.WriteJSON(w, http.StatusBadGateway, httputil.ErrorBody{Message: story.FailureMessage, RequestID: reqID})
			return
		}
		metrics.StoryGenerated("ok")

		resp := storyResponse{Topic: s.Topic, Story: s.Text(), Parts: s.Parts}
		if deps.Store != nil {
			archive(r.Context(), deps, log, s, req.Narrate, &resp)
		} else if req.Narrate {
			log.Info("narration requested but no archive is configured")
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

// archive stores the story and optionally queues its narration. Failures are
// logged and leave the response without an id; the story itself is still returned.
func archive(ctx context.Context, deps app.Deps, log *slog.Logger, s story.Story, narrate bool, resp *storyResponse) {
	status := store.NarrationNone
	if narrate && deps.Queue != nil {
		status = store.NarrationPending
	}

	saved, err := deps.Store.CreateStory(ctx, s.Topic, s.Plan.Slice(), s.Parts, status)
	if err != nil {
		log.Warn("failed to archive story", "err", err)
		return
	}
	resp.ID = saved.ID.String()
	resp.NarrationStatus = string(saved.NarrationStatus)

	if status != store.NarrationPending {
		return
	}
	task, err := queue.NewNarrateTask(saved.ID)
	if err == nil {
		err = queue.EnqueueWithRetry(ctx, deps.Queue, task, enqueueAttempts, enqueueBackoff)
	}
	if err != nil {
		log.Warn("failed to enqueue narration", "story_id", saved.ID, "err", err)
		if uerr := deps.Store.UpdateNarrationStatus(ctx, saved.ID, store.NarrationFailed); uerr != nil {
			log.Warn("failed to mark narration failed", "story_id", saved.ID, "err", uerr)
		}
		resp.NarrationStatus = string(store.NarrationFailed)
		return
	}
	log.Info("narration queued", "story_id", saved.ID, "task_id", task.ID)
}

func getStoryHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := storyID(deps, w, r)
		if !ok {
			return
		}
		s, err := deps.Store.GetStory(r.Context(), id)
		if errors.Is(err, store.ErrStoryNotFound) {
			httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorBody{Message: "Story not found"})
			return
		}
		if err != nil {
			httputil.Fail(deps.Log, w, "Failed to load story", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, storyResponse{
			ID:              s.ID.String(),
			Topic:           s.Topic,
			Story:           s.Text(),
			Parts:           s.Parts,
			Plan:            s.Plan,
			NarrationStatus: string(s.NarrationStatus),
			CreatedAt:       s.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
}

func audioHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := storyID(deps, w, r)
		if !ok {
			return
		}
		audio, err := deps.Store.GetAudio(r.Context(), id)
		if errors.Is(err, store.ErrAudioNotFound) {
			httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorBody{Message: "Narration not ready"})
			return
		}
		if err != nil {
			httputil.Fail(deps.Log, w, "Failed to load narration", err, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", audio.ContentType)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(audio.Data); err != nil {
			deps.Log.Warn("audio write failed", "story_id", id, "err", err)
		}
	}
}

func storyID(deps app.Deps, w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if deps.Store == nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorBody{Message: "Story archive is disabled"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Message: "Invalid story id"})
		return uuid.Nil, false
	}
	return id, true
}
