package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskViewsWarmup rebuilds every derived view from the store feeds.
	TaskViewsWarmup = "views:warmup"
)

// ViewRefresher rebuilds the derived views. Satisfied by the reconcile
// service.
type ViewRefresher interface {
	RefreshAll(ctx context.Context) error
}

// NewViewsWarmupTask constructs the warm-up task.
func NewViewsWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskViewsWarmup, nil)
}

// ViewsWarmupHandler returns the handler for TaskViewsWarmup tasks. The
// warm-up keeps dashboard reads fast after deploys and cache flushes.
func ViewsWarmupHandler(refresher ViewRefresher, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		start := time.Now()
		if err := refresher.RefreshAll(ctx); err != nil {
			if logger != nil {
				logger.Error("views warm-up failed", slog.Any("error", err))
			}
			return err
		}
		if logger != nil {
			logger.Info("views warmed up", slog.Duration("took", time.Since(start)))
		}
		return nil
	}
}
