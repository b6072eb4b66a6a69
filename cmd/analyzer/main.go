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
	"newsbug/pkg/geocode"
	"newsbug/pkg/llm"
)

func main() {
	once := flag.Bool("once", false, "run a single budgeted pass and exit")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	logging.Setup(cfg.LogLevel)

	if errs := cfg.ValidateAnalyzer(); len(errs) > 0 {
		for _, e := range errs {
			slog.Error("invalid config", "field", e.Field, "error", e.Message)
		}
		log.Fatalf("invalid configuration")
	}

	err = db.Connect(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	var cache geocode.Cache
	if err := db.ConnectRedis(cfg.Redis.URL); err != nil {
		slog.Warn("redis unavailable, geocoding without cache", "error", err)
	} else {
		defer db.CloseRedis()
		cache = db.GeocodeCache{TTL: cfg.Geocode.CacheTTL}
	}

	analyzer, err := llm.NewAnalyzer(cfg.LLM.Provider, cfg.LLM.OpenAIKey, cfg.LLM.AnthropicKey)
	if err != nil {
		log.Fatalf("error creating analyzer: %v", err)
	}

	runner := jobs.NewAnalyzeRunner(
		repository.NewArticleRepository(db.DB),
		repository.NewCategoryRepository(db.DB),
		analyzer,
		geocode.NewEnricher(geocode.NewMapboxClient(cfg.Geocode.MapboxKey), cache),
		cfg.Analyzer.BatchSize,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("analyzer started", "analyzer", analyzer.Name(), "batch_size", cfg.Analyzer.BatchSize)

	for {
		drain(ctx, runner, cfg.Analyzer.Budget)

		if *once {
			return
		}

		select {
		case <-ctx.Done():
			slog.Info("analyzer stopping")
			return
		case <-time.After(cfg.Analyzer.Interval):
		}
	}
}

// drain processes batches until none is pending, a batch fails or the budget runs out.
func drain(ctx context.Context, runner *jobs.AnalyzeRunner, budget time.Duration) {
	deadline := time.Now().Add(budget)
	total := 0

	for time.Now().Before(deadline) && ctx.Err() == nil {
		n, err := runner.RunOnce(ctx)
		if err != nil {
			slog.Error("error analyzing batch", "error", err)
			break
		}

		if n == 0 {
			break
		}

		total += n
	}

	slog.Info("analysis pass finished", "articles", total)
}
