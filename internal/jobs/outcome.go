// Package jobs runs the scheduled scraping pipeline: the poller queues due
// sources, the scrape runner crawls them and the analyze runner extracts
// keyword mentions from the stored articles.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"newsbug/internal/model"
	"newsbug/pkg/cron"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExecutionRecorder persists the result of one source run.
type ExecutionRecorder interface {
	Complete(ctx context.Context, id primitive.ObjectID, exec model.JobExecution, nextRunAt *time.Time) error
	Fail(ctx context.Context, id primitive.ObjectID, exec model.JobExecution, status model.SourceStatus, nextRunAt *time.Time, currentRetry int) error
}

// nextRun is the schedule's next fire time after now, or nil when the
// schedule cannot be evaluated.
func nextRun(source *model.Source, now time.Time) *time.Time {
	next, err := cron.Next(source.CronSchedule, now)
	if err != nil {
		slog.Error("error computing next run", "source_id", source.ID.Hex(), "cron", source.CronSchedule, "error", err)
		return nil
	}
	return &next
}

func finishExecution(exec *model.JobExecution, now time.Time) {
	exec.CompletedAt = &now
	exec.Duration = now.Sub(exec.StartedAt).Milliseconds()
}

func recordSuccess(ctx context.Context, store ExecutionRecorder, source *model.Source, exec model.JobExecution, now time.Time) error {
	exec.Status = model.ExecutionCompleted
	finishExecution(&exec, now)

	return store.Complete(ctx, source.ID, exec, nextRun(source, now))
}

// recordFailure retries a failed run on the next poll until the source's retry
// budget is spent, then marks it failed and waits for the next scheduled run.
func recordFailure(ctx context.Context, store ExecutionRecorder, source *model.Source, exec model.JobExecution, cause error, now time.Time) error {
	exec.Status = model.ExecutionFailed
	exec.Error = cause.Error()
	finishExecution(&exec, now)

	if source.CurrentRetry < source.MaxRetries() {
		retry := source.CurrentRetry + 1
		slog.Warn("source run failed, retrying", "source_id", source.ID.Hex(), "retry", retry, "max_retries", source.MaxRetries(), "error", cause)
		return store.Fail(ctx, source.ID, exec, model.SourceIdle, &now, retry)
	}

	slog.Error("source run failed, retries exhausted", "source_id", source.ID.Hex(), "error", cause)
	return store.Fail(ctx, source.ID, exec, model.SourceFailed, nextRun(source, now), 0)
}
