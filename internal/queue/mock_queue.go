package queue

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockQueue records enqueued tasks and worker registrations. Tests that need
// Worker to block can do so from a Run func.
type MockQueue struct {
	mock.Mock
}

var _ Queue = (*MockQueue)(nil)

func (m *MockQueue) Enqueue(ctx context.Context, task Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockQueue) Worker(ctx context.Context, taskType TaskType, handler Handler) error {
	return m.Called(ctx, taskType, handler).Error(0)
}
