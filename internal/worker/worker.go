// Package worker runs periodic maintenance in the background. The only job
// today is expiring stale sessions; their carts go with them via FK cascade.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SessionCleaner deletes expired sessions, returning the number removed.
type SessionCleaner interface {
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// PollInterval is how often to run the cleanup pass
	PollInterval time.Duration
}

// Worker periodically removes expired sessions and their carts.
type Worker struct {
	config   Config
	sessions SessionCleaner
	logger   *slog.Logger
}

// NewWorker creates a new cleanup worker
func NewWorker(sessions SessionCleaner, config Config, logger *slog.Logger) *Worker {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = time.Hour
	}

	return &Worker{
		config:   config,
		sessions: sessions,
		logger:   logger,
	}
}

// Start runs cleanup passes until the context is cancelled. The first pass
// runs immediately so a restart doesn't wait a full interval.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("cleanup worker starting",
		"worker_id", w.config.WorkerID,
		"poll_interval", w.config.PollInterval,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("cleanup worker shutting down", "worker_id", w.config.WorkerID)
			return ctx.Err()

		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce performs a single cleanup pass.
func (w *Worker) runOnce(ctx context.Context) {
	deleted, err := w.sessions.DeleteExpiredSessions(ctx)
	if err != nil {
		w.logger.Error("session cleanup failed",
			"worker_id", w.config.WorkerID,
			"error", err,
		)
		return
	}

	if deleted > 0 {
		w.logger.Info("expired sessions removed",
			"worker_id", w.config.WorkerID,
			"count", deleted,
		)
	}
}
