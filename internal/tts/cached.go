package tts

import (
	"context"
	"log/slog"
	"time"

	"verhalen-machine/internal/cache"
)

// CachedSynthesizer serves repeated narrations from a cache. Cache errors are
// logged and never fail a synthesis.
type CachedSynthesizer struct {
	next    Synthesizer
	cache   cache.Cache
	ttl     time.Duration
	keyBase []string
	log     *slog.Logger
}

// NewCachedSynthesizer wraps next. keyBase must identify next's voice settings.
func NewCachedSynthesizer(next Synthesizer, c cache.Cache, ttl time.Duration, keyBase []string, log *slog.Logger) *CachedSynthesizer {
	return &CachedSynthesizer{next: next, cache: c, ttl: ttl, keyBase: keyBase, log: log}
}

func (s *CachedSynthesizer) Synthesize(ctx context.Context, text string) (Audio, error) {
	key := cache.GenerateCacheKey(append(append([]string{}, s.keyBase...), text)...)

	if hit, err := s.cache.GetAudio(ctx, key); err != nil {
		s.log.Warn("audio cache read failed", "err", err)
	} else if hit != nil {
		s.log.Debug("audio cache hit", "bytes", len(hit.Data))
		return Audio{Data: hit.Data, ContentType: hit.ContentType}, nil
	}

	audio, err := s.next.Synthesize(ctx, text)
	if err != nil {
		return Audio{}, err
	}
	if err := s.cache.SetAudio(ctx, key, &cache.Audio{Data: audio.Data, ContentType: audio.ContentType}, s.ttl); err != nil {
		s.log.Warn("audio cache write failed", "err", err)
	}
	return audio, nil
}
