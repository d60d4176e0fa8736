package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewNarrateTask(t *testing.T) {
	id := uuid.New()
	task, err := NewNarrateTask(id)
	require.NoError(t, err)

	assert.Equal(t, TaskTypeNarrate, task.Type)
	assert.Equal(t, DefaultMaxAttempts, task.MaxAttempts)

	var payload NarratePayload
	require.NoError(t, json.Unmarshal(task.Payload, &payload))
	assert.Equal(t, id, payload.StoryID)
}

func TestEnqueueWithRetry(t *testing.T) {
	task := Task{Type: TaskTypeNarrate}

	t.Run("succeeds after transient failure", func(t *testing.T) {
		q := new(MockQueue)
		q.On("Enqueue", mock.Anything, task).Return(errors.New("nats: timeout")).Once()
		q.On("Enqueue", mock.Anything, task).Return(nil).Once()

		err := EnqueueWithRetry(context.Background(), q, task, 3, time.Millisecond)

		assert.NoError(t, err)
		q.AssertExpectations(t)
	})

	t.Run("returns last error when attempts run out", func(t *testing.T) {
		q := new(MockQueue)
		q.On("Enqueue", mock.Anything, task).Return(errors.New("nats: no servers")).Times(3)

		err := EnqueueWithRetry(context.Background(), q, task, 3, time.Millisecond)

		assert.EqualError(t, err, "nats: no servers")
		q.AssertExpectations(t)
	})

	t.Run("zero attempts still tries once", func(t *testing.T) {
		q := new(MockQueue)
		q.On("Enqueue", mock.Anything, task).Return(nil).Once()

		assert.NoError(t, EnqueueWithRetry(context.Background(), q, task, 0, time.Millisecond))
		q.AssertExpectations(t)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		q := new(MockQueue)
		q.On("Enqueue", mock.Anything, task).Return(errors.New("nats: timeout")).Once()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := EnqueueWithRetry(ctx, q, task, 3, time.Hour)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNextAttempt(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	next, ok := nextAttempt(Task{Type: TaskTypeNarrate}, now)
	require.True(t, ok)
	assert.Equal(t, 1, next.Attempts)
	assert.Equal(t, DefaultMaxAttempts, next.MaxAttempts)
	assert.Equal(t, now.Add(2*time.Second), next.NotBefore)

	next, ok = nextAttempt(Task{Attempts: 10, MaxAttempts: 20}, now)
	require.True(t, ok)
	assert.Equal(t, now.Add(redeliveryMax), next.NotBefore, "backoff is capped")

	_, ok = nextAttempt(Task{Attempts: DefaultMaxAttempts - 1, MaxAttempts: DefaultMaxAttempts}, now)
	assert.False(t, ok)
}

func TestSleepUntil(t *testing.T) {
	assert.True(t, sleepUntil(context.Background(), time.Time{}))
	assert.True(t, sleepUntil(context.Background(), time.Now().Add(5*time.Millisecond)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleepUntil(ctx, time.Now().Add(time.Hour)))
}

func TestNATSEnqueueRequiresType(t *testing.T) {
	q := &natsQueue{}
	assert.ErrorIs(t, q.Enqueue(context.Background(), Task{}), ErrNoTaskType)
}
