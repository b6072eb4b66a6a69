package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"newsbug/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PollerStore interface {
	ExecutionRecorder
	ResetStale(ctx context.Context, cutoff time.Time) (int64, error)
	GetDue(ctx context.Context, now time.Time) ([]model.Source, error)
	Claim(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type Queue interface {
	Push(data string) error
}

type Poller struct {
	sources    PollerStore
	queue      Queue
	staleAfter time.Duration
	now        func() time.Time
}

func NewPoller(sources PollerStore, queue Queue, staleAfter time.Duration) *Poller {
	return &Poller{sources: sources, queue: queue, staleAfter: staleAfter, now: time.Now}
}

// PollOnce claims every due source and queues a scrape job for it. It returns
// the number of jobs queued.
func (p *Poller) PollOnce(ctx context.Context) (int, error) {
	now := p.now().UTC()

	if p.staleAfter > 0 {
		reset, err := p.sources.ResetStale(ctx, now.Add(-p.staleAfter))
		if err != nil {
			slog.Error("error resetting stale sources", "error", err)
		} else if reset > 0 {
			slog.Warn("reset stale running sources", "count", reset)
		}
	}

	due, err := p.sources.GetDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("get due sources: %w", err)
	}

	queued := 0
	for i := range due {
		source := &due[i]

		claimed, err := p.sources.Claim(ctx, source.ID)
		if err != nil {
			slog.Error("error claiming source", "source_id", source.ID.Hex(), "error", err)
			continue
		}

		if !claimed {
			slog.Info("source already claimed", "source_id", source.ID.Hex())
			continue
		}

		job := model.ScrapeJob{
			JobID:     uuid.NewString(),
			SourceID:  source.ID.Hex(),
			StartedAt: now,
		}

		if err := p.enqueue(job); err != nil {
			slog.Error("error queueing scrape job", "source_id", job.SourceID, "error", err)

			exec := model.JobExecution{ID: job.JobID, StartedAt: now}
			if err := recordFailure(ctx, p.sources, source, exec, err, p.now().UTC()); err != nil {
				slog.Error("error recording queue failure", "source_id", job.SourceID, "error", err)
			}
			continue
		}

		slog.Info("scrape job queued", "source_id", job.SourceID, "job_id", job.JobID, "url", source.URL)
		queued++
	}

	return queued, nil
}

func (p *Poller) enqueue(job model.ScrapeJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.queue.Push(string(payload))
}
