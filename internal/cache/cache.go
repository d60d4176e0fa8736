package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache stores synthesized narration audio.
type Cache interface {
	// GetAudio retrieves cached audio by key.
	// Returns nil if not found
	GetAudio(ctx context.Context, key string) (*Audio, error)

	// SetAudio stores audio with TTL
	SetAudio(ctx context.Context, key string, audio *Audio, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// Audio is a cached speech synthesis result.
type Audio struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
}

// GenerateCacheKey derives a stable key from every input that changes the audio.
func GenerateCacheKey(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h[:])
}
