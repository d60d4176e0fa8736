package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"verhalen-machine/internal/retry"
)

// TaskType enumerates supported task categories.
type TaskType string

const TaskTypeNarrate TaskType = "narrate"

// DefaultMaxAttempts bounds redelivery of a failing task.
const DefaultMaxAttempts = 5

// Task represents a unit of work handed from the gateway to a worker.
type Task struct {
	ID          uuid.UUID
	Type        TaskType
	Payload     []byte
	Attempts    int
	MaxAttempts int
	NotBefore   time.Time
}

// NarratePayload asks the narrator to voice an archived story.
type NarratePayload struct {
	StoryID uuid.UUID `json:"story_id"`
}

// NewNarrateTask builds a narrate task for storyID.
func NewNarrateTask(storyID uuid.UUID) (Task, error) {
	body, err := json.Marshal(NarratePayload{StoryID: storyID})
	if err != nil {
		return Task{}, err
	}
	return Task{Type: TaskTypeNarrate, Payload: body, MaxAttempts: DefaultMaxAttempts}, nil
}

type Handler func(context.Context, Task) error

// Queue exposes a minimal contract to enqueue and consume tasks.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Worker(ctx context.Context, taskType TaskType, handler Handler) error
}

// EnqueueWithRetry attempts to enqueue with retries and exponential backoff.
func EnqueueWithRetry(ctx context.Context, q Queue, task Task, attempts int, base time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if err := q.Enqueue(ctx, task); err == nil {
			return nil
		} else if attempt == attempts-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.ExponentialBackoff(attempt, base)):
		}
	}
	return nil
}
