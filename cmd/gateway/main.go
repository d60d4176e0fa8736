package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verhalen-machine/internal/app"
	"verhalen-machine/internal/httputil"
	"verhalen-machine/internal/metrics"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           routes(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	deps.Log.Info("gateway listening", "addr", addr, "llm_provider", deps.Config.LLMProvider,
		"archive", deps.Store != nil, "narration_queue", deps.Queue != nil)
	if err := httputil.Serve(ctx, srv); err != nil {
		deps.Log.Error("server failed", "err", err)
		return
	}
	deps.Log.Info("gateway stopped")
}

func routes(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log, time.Duration(deps.Config.RequestTimeout)*time.Second)

	r.Post("/api/claude", completionHandler(deps))
	r.Post("/api/tts", speechHandler(deps))
	r.Post("/api/story", storyHandler(deps))
	r.Get("/api/stories/{id}", getStoryHandler(deps))
	r.Get("/api/stories/{id}/audio", audioHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	r.Handle("/metrics", metrics.Handler())

	return r
}
