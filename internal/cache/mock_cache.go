package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache is a testify mock of Cache. Return (nil, nil) from GetAudio for a miss.
type MockCache struct {
	mock.Mock
}

var _ Cache = (*MockCache)(nil)

func (m *MockCache) GetAudio(ctx context.Context, key string) (*Audio, error) {
	args := m.Called(ctx, key)
	audio, _ := args.Get(0).(*Audio)
	return audio, args.Error(1)
}

func (m *MockCache) SetAudio(ctx context.Context, key string, audio *Audio, ttl time.Duration) error {
	return m.Called(ctx, key, audio, ttl).Error(0)
}

func (m *MockCache) Close() error {
	return m.Called().Error(0)
}
