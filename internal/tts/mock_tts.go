package tts

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSynthesizer is a mock implementation of Synthesizer using testify/mock.
type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) (Audio, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(Audio), args.Error(1)
}
