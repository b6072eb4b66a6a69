package main

import (
	"context"
	"flag"
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
	"newsbug/internal/repository"
)

func main() {
	once := flag.Bool("once", false, "poll a single time and exit")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	logging.Setup(cfg.LogLevel)

	err = db.Connect(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	sourceRepo := repository.NewSourceRepository(db.DB)
	poller := jobs.NewPoller(sourceRepo, db.RedisQueue{Key: db.ScrapeQueueKey}, cfg.Poller.StaleAfter)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poll := func() {
		queued, err := poller.PollOnce(ctx)
		if err != nil {
			slog.Error("error polling sources", "error", err)
			return
		}

		length, err := db.GetQueueLength(db.ScrapeQueueKey)
		if err != nil {
			slog.Warn("error reading queue length", "error", err)
		}

		slog.Info("poll finished", "queued", queued, "queue_length", length)
	}

	poll()
	if *once {
		return
	}

	ticker := time.NewTicker(cfg.Poller.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("poller stopping")
			return
		case <-ticker.C:
			poll()
		}
	}
}
