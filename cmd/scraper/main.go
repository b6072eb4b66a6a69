package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsbug/db"
	"newsbug/internal/config"
	"newsbug/internal/jobs"
	"newsbug/internal/logging"
	"newsbug/internal/model"
	"newsbug/internal/repository"
	"newsbug/pkg/scrape"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	logging.Setup(cfg.LogLevel)

	err = db.ConnectRedis(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	crawler := scrape.NewCrawler(scrape.CrawlerConfig{
		MaxPages:   cfg.Scraper.MaxPages,
		MaxDepth:   cfg.Scraper.MaxDepth,
		MaxWorkers: cfg.Scraper.MaxWorkers,
		RateLimit:  cfg.Scraper.RateLimit,
		Timeout:    cfg.Scraper.Timeout,
		SizeCap:    cfg.Scraper.MaxBodySize,
	})

	runner := jobs.NewScrapeRunner(
		repository.NewSourceRepository(db.DB),
		repository.NewCategoryRepository(db.DB),
		repository.NewArticleRepository(db.DB),
		crawler,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("scraper waiting for jobs", "queue", db.ScrapeQueueKey)

	for ctx.Err() == nil {
		payload, err := db.PopFromQueue(db.ScrapeQueueKey, cfg.Scraper.PopTimeout)
		if errors.Is(err, db.ErrQueueEmpty) {
			continue
		}

		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			time.Sleep(5 * time.Second)
			continue
		}

		var job model.ScrapeJob
		if err := json.Unmarshal([]byte(payload), &job); err != nil || job.SourceID == "" {
			slog.Error("invalid scrape job in queue", "payload", payload, "error", err)
			db.PushToQueue(db.DeadLetterKey, payload)
			continue
		}

		err = runner.Run(ctx, job)
		if errors.Is(err, jobs.ErrSourceNotFound) {
			slog.Warn("source deleted before scrape", "source_id", job.SourceID, "job_id", job.JobID)
			continue
		}

		if err != nil {
			slog.Error("error recording scrape result", "error", err, "source_id", job.SourceID, "job_id", job.JobID)
		}
	}

	slog.Info("scraper stopping")
}
