package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	entries []*models.ClarificationLog
	err     error
}

func (f *fakeStore) Create(_ context.Context, entry *models.ClarificationLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

type fakeQueue struct {
	tasks []*asynq.Task
	opts  []asynq.Option
	err   error
}

func (f *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = opts
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault}, nil
}

func sampleEntry() *models.ClarificationLog {
	return &models.ClarificationLog{
		ID:           "c-1",
		Source:       models.SourceText,
		Reason:       "extraction_ambiguous",
		Fields:       []string{"date", "time"},
		Message:      "Ambiguous or missing: date, time",
		OriginalText: "see a doctor",
		CreatedAt:    time.Date(2025, 9, 29, 9, 0, 0, 0, time.UTC),
	}
}

func TestEnqueuerRoundTripsThroughHandler(t *testing.T) {
	queue := &fakeQueue{}
	e := &Enqueuer{client: queue}
	require.NoError(t, e.Record(context.Background(), sampleEntry()))
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, TypeClarificationRecord, queue.tasks[0].Type())
	assert.Len(t, queue.opts, 3)

	store := &fakeStore{}
	handler := handleClarificationTask(store, zap.NewNop())
	require.NoError(t, handler(context.Background(), queue.tasks[0]))

	require.Len(t, store.entries, 1)
	assert.Equal(t, sampleEntry(), store.entries[0])
}

func TestEnqueuerError(t *testing.T) {
	e := &Enqueuer{client: &fakeQueue{err: errors.New("redis down")}}
	err := e.Record(context.Background(), sampleEntry())
	assert.ErrorContains(t, err, "redis down")
}

func TestHandlerSkipsRetryOnBadPayload(t *testing.T) {
	handler := handleClarificationTask(&fakeStore{}, zap.NewNop())
	err := handler(context.Background(), asynq.NewTask(TypeClarificationRecord, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandlerReturnsStoreErrorForRetry(t *testing.T) {
	task, err := NewClarificationTask(sampleEntry())
	require.NoError(t, err)

	handler := handleClarificationTask(&fakeStore{err: errors.New("mongo timeout")}, zap.NewNop())
	err = handler(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestDirectRecorder(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, NewDirectRecorder(store).Record(context.Background(), sampleEntry()))
	assert.Len(t, store.entries, 1)
}
