package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"verhalen-machine/internal/app"
	"verhalen-machine/internal/httputil"
	"verhalen-machine/internal/metrics"
	"verhalen-machine/internal/queue"
	"verhalen-machine/internal/store"
)

func main() {
	deps, err := app.BuildNarrator()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()
	deps.Log.Info("narrator worker starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, deps); err != nil {
		deps.Log.Error("narrator stopped", "err", err)
		return
	}
	deps.Log.Info("narrator stopped")
}

// run consumes narrate tasks and serves health checks until ctx is done or
// either of them fails.
func run(ctx context.Context, deps app.Deps) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeNarrate, func(ctx context.Context, task queue.Task) error {
			var payload queue.NarratePayload
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				return err
			}
			return handleNarrate(ctx, deps, payload)
		})
	})

	g.Go(func() error {
		return httputil.ServeHealth(ctx, deps.Log, deps.Config.Port, "narrator")
	})

	return g.Wait()
}

// handleNarrate voices an archived story. Any failure marks the story failed
// and is returned so the queue can redeliver the task; an unknown story is
// dropped.
func handleNarrate(ctx context.Context, deps app.Deps, payload queue.NarratePayload) error {
	log := deps.Log.With("story_id", payload.StoryID)

	err := narrate(ctx, deps, payload)
	if errors.Is(err, store.ErrStoryNotFound) {
		// Redelivery cannot bring the story back.
		metrics.Narrated("failed")
		log.Warn("dropping narration for unknown story")
		return nil
	}
	if err != nil {
		metrics.Narrated("failed")
		log.Error("narration failed", "err", err)
		if uerr := deps.Store.UpdateNarrationStatus(ctx, payload.StoryID, store.NarrationFailed); uerr != nil {
			log.Warn("failed to mark narration failed", "err", uerr)
		}
		return err
	}
	metrics.Narrated("ok")
	log.Info("narration ready")
	return nil
}

func narrate(ctx context.Context, deps app.Deps, payload queue.NarratePayload) error {
	s, err := deps.Store.GetStory(ctx, payload.StoryID)
	if err != nil {
		return fmt.Errorf("failed to get story: %w", err)
	}
	if err := deps.Store.UpdateNarrationStatus(ctx, s.ID, store.NarrationProcessing); err != nil {
		return fmt.Errorf("failed to mark processing: %w", err)
	}

	text := s.Text()
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("story %s has no text", s.ID)
	}
	audio, err := deps.TTS.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to synthesize: %w", err)
	}

	return deps.Store.SaveAudio(ctx, store.Audio{
		StoryID:     s.ID,
		Data:        audio.Data,
		ContentType: audio.ContentType,
	})
}
