package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/metrics"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ClarificationStore persists clarification records.
type ClarificationStore interface {
	Create(ctx context.Context, entry *models.ClarificationLog) error
}

// Server consumes clarification tasks.
type Server struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewServer(redisOpts asynq.RedisClientOpt, store ClarificationStore, logger *zap.Logger) *Server {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueDefault: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeClarificationRecord, handleClarificationTask(store, logger))

	return &Server{srv: srv, mux: mux, logger: logger}
}

// Start launches the worker in the background, retrying with a growing backoff when Redis is not
// reachable yet.
func (s *Server) Start() {
	go func() {
		s.logger.Info("Starting clarification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := s.srv.Start(s.mux)
			if err == nil {
				return
			}
			s.logger.Warn("Clarification worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				s.logger.Error("Clarification worker gave up; clarifications will not be recorded")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown waits for in-flight tasks and stops the worker.
func (s *Server) Shutdown() {
	s.srv.Shutdown()
}

func handleClarificationTask(store ClarificationStore, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var entry models.ClarificationLog
		if err := json.Unmarshal(task.Payload(), &entry); err != nil {
			logger.Error("Invalid clarification payload", zap.Error(err))
			metrics.ClarificationLogJobs.WithLabelValues("invalid").Inc()
			return fmt.Errorf("decode clarification payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := store.Create(ctx, &entry); err != nil {
			logger.Warn("Failed to record clarification", zap.String("id", entry.ID), zap.Error(err))
			metrics.ClarificationLogJobs.WithLabelValues("failed").Inc()
			return err
		}
		logger.Debug("Clarification recorded",
			zap.String("id", entry.ID), zap.String("reason", entry.Reason), zap.Strings("fields", entry.Fields))
		metrics.ClarificationLogJobs.WithLabelValues("recorded").Inc()
		return nil
	}
}
