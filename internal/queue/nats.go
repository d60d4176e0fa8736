package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"verhalen-machine/internal/retry"
)

// ErrNoTaskType is returned for tasks that cannot be routed to a subject.
var ErrNoTaskType = errors.New("task type required")

const (
	subjectPrefix = "verhalen.tasks."
	groupPrefix   = "workers-"

	// Redelivery waits grow from one second and stop growing at thirty.
	redeliveryBase = time.Second
	redeliveryMax  = 30 * time.Second
)

func subject(t TaskType) string { return subjectPrefix + string(t) }

// NewNATS returns a Queue that publishes tasks as JSON on core NATS and
// balances them over a queue group per task type.
func NewNATS(log *slog.Logger, nc *nats.Conn) Queue {
	return &natsQueue{log: log, nc: nc}
}

type natsQueue struct {
	log *slog.Logger
	nc  *nats.Conn
}

func (q *natsQueue) Enqueue(_ context.Context, task Task) error {
	if task.Type == "" {
		return ErrNoTaskType
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task %s: %w", task.ID, err)
	}
	return q.nc.Publish(subject(task.Type), body)
}

// Worker runs handler for every task of taskType until ctx is done.
func (q *natsQueue) Worker(ctx context.Context, taskType TaskType, handler Handler) error {
	sub, err := q.nc.QueueSubscribe(subject(taskType), groupPrefix+string(taskType), func(msg *nats.Msg) {
		q.deliver(ctx, msg.Data, handler)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", taskType, err)
	}
	<-ctx.Done()
	return sub.Unsubscribe()
}

// Close drains the connection so in-flight messages are handled before it closes.
func (q *natsQueue) Close() error {
	return q.nc.Drain()
}

func (q *natsQueue) deliver(ctx context.Context, data []byte, handler Handler) {
	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		q.log.Error("dropping undecodable task", "err", err)
		return
	}
	log := q.log.With("task_id", task.ID, "type", task.Type, "attempt", task.Attempts+1)

	if !sleepUntil(ctx, task.NotBefore) {
		return
	}
	herr := handler(ctx, task)
	if herr == nil {
		return
	}

	next, ok := nextAttempt(task, time.Now())
	if !ok {
		log.Error("task permanently failed", "err", herr)
		return
	}
	log.Warn("task failed, redelivering", "err", herr, "not_before", next.NotBefore)
	if err := q.Enqueue(ctx, next); err != nil {
		log.Error("failed to redeliver task", "handler_err", herr, "enqueue_err", err)
	}
}

// nextAttempt counts the failed attempt and schedules the following one, or
// reports false when the task has used all its attempts.
func nextAttempt(task Task, now time.Time) (Task, bool) {
	task.Attempts++
	if task.MaxAttempts <= 0 {
		task.MaxAttempts = DefaultMaxAttempts
	}
	if task.Attempts >= task.MaxAttempts {
		return task, false
	}
	task.NotBefore = now.Add(retry.CappedBackoff(task.Attempts, redeliveryBase, redeliveryMax))
	return task, true
}

// sleepUntil waits for t and reports false if ctx ends first.
func sleepUntil(ctx context.Context, t time.Time) bool {
	wait := time.Until(t)
	if wait <= 0 {
		return true
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
