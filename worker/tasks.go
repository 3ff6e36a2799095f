// Package worker records clarifications asynchronously through an asynq queue, so a slow or
// unavailable Mongo never delays the response to the caller.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"

	"github.com/hibiken/asynq"
)

const (
	TypeClarificationRecord = "clarification:record"
	QueueDefault            = "default"

	maxRetry    = 5
	taskTimeout = 10 * time.Second
)

func NewClarificationTask(entry *models.ClarificationLog) (*asynq.Task, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode clarification payload: %w", err)
	}
	return asynq.NewTask(TypeClarificationRecord, payload), nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer hands clarification records to the queue.
type Enqueuer struct {
	client enqueuer
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// Record enqueues entry for the worker to persist.
func (e *Enqueuer) Record(ctx context.Context, entry *models.ClarificationLog) error {
	task, err := NewClarificationTask(entry)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(taskTimeout),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeClarificationRecord, err)
	}
	return nil
}

// DirectRecorder writes clarification records synchronously; used when no queue is available.
type DirectRecorder struct {
	store ClarificationStore
}

func NewDirectRecorder(store ClarificationStore) *DirectRecorder {
	return &DirectRecorder{store: store}
}

func (d *DirectRecorder) Record(ctx context.Context, entry *models.ClarificationLog) error {
	return d.store.Create(ctx, entry)
}
