package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/quillpress/dashboard/internal/jobs"
)

// Purger removes comments that stayed deleted longer than retention.
// *moderation.Service implements it.
type Purger interface {
	PurgeDeleted(ctx context.Context, retention time.Duration) (int64, error)
}

// CommentsPurgeJob hard-deletes soft-deleted comments past their retention.
type CommentsPurgeJob struct {
	Purger    Purger
	Retention time.Duration
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewCommentsPurgeJob wires dependencies for the purge handler.
func NewCommentsPurgeJob(purger Purger, retention time.Duration, logger *slog.Logger, metrics *jobmetrics.Metrics) *CommentsPurgeJob {
	return &CommentsPurgeJob{Purger: purger, Retention: retention, Logger: logger, Metrics: metrics}
}

// Handle processes TaskCommentsPurge tasks.
func (j *CommentsPurgeJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Purger == nil {
		return errors.New("comments purge: handler not configured")
	}
	var payload CommentsPurgePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("comments purge: decode payload: %w: %w", err, asynq.SkipRetry)
		}
	}
	retention := j.Retention
	if payload.RetentionHours > 0 {
		retention = time.Duration(payload.RetentionHours) * time.Hour
	}

	tracker := j.Metrics.Track(TaskCommentsPurge)
	defer func() {
		err = tracker.End(err)
	}()

	logger := j.logger().With(slog.Duration("retention", retention))
	purged, err := j.Purger.PurgeDeleted(ctx, retention)
	if err != nil {
		logger.Error("purge deleted comments", slog.Any("error", err))
		return err
	}
	j.Metrics.AddPurged(purged)
	logger.Info("purged deleted comments", slog.Int64("count", purged))
	return nil
}

func (j *CommentsPurgeJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
