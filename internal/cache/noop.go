package cache

import (
	"context"
	"time"
)

// NoOpCache stands in when CACHE_PROVIDER=none or Redis is unreachable.
// Every lookup is a miss and writes are discarded.
type NoOpCache struct{}

var _ Cache = (*NoOpCache)(nil)

func NewNoOpCache() *NoOpCache { return &NoOpCache{} }

func (*NoOpCache) GetAudio(context.Context, string) (*Audio, error) { return nil, nil }

func (*NoOpCache) SetAudio(context.Context, string, *Audio, time.Duration) error { return nil }

func (*NoOpCache) Close() error { return nil }
