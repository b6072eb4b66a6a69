package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"newsbug/db"
	"newsbug/internal/config"
	"newsbug/internal/handler"
	"newsbug/internal/logging"
	"newsbug/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	logging.Setup(cfg.LogLevel)

	if errs := cfg.Validate(); len(errs) > 0 {
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx); err != nil {
		slog.Error("error creating indexes", "error", err)
	}
	cancel()

	checks := map[string]handler.HealthCheck{"database": db.Ping}

	// Redis is only needed by the workers; report it when reachable.
	if err := db.ConnectRedis(cfg.Redis.URL); err != nil {
		slog.Warn("redis unavailable", "error", err)
	} else {
		defer db.CloseRedis()
		checks["redis"] = db.PingRedis
	}

	if err := handler.RegisterValidators(); err != nil {
		log.Fatalf("error registering validators: %v", err)
	}

	categoryRepo := repository.NewCategoryRepository(db.DB)
	sourceRepo := repository.NewSourceRepository(db.DB)
	articleRepo := repository.NewArticleRepository(db.DB)

	categoryHandler := handler.NewCategoryHandler(categoryRepo, sourceRepo, articleRepo)
	sourceHandler := handler.NewSourceHandler(sourceRepo, categoryRepo)
	articleHandler := handler.NewArticleHandler(articleRepo)
	healthHandler := handler.NewHealthHandler(checks)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/health", healthHandler.GetHealth)

	r.GET("/categories", categoryHandler.GetCategories)
	r.POST("/categories", categoryHandler.CreateCategory)
	r.GET("/categories/:id", categoryHandler.GetCategory)
	r.PUT("/categories/:id", categoryHandler.UpdateCategory)
	r.DELETE("/categories/:id", categoryHandler.DeleteCategory)
	r.GET("/categories/:id/sources", sourceHandler.GetSources)
	r.GET("/categories/:id/articles", articleHandler.GetArticles)
	r.GET("/categories/:id/keywords", articleHandler.GetKeywords)
	r.GET("/categories/:id/keywords/map", articleHandler.GetKeywordMap)

	r.POST("/sources", sourceHandler.CreateSource)
	r.GET("/sources/:id", sourceHandler.GetSource)
	r.PATCH("/sources/:id", sourceHandler.UpdateSource)
	r.DELETE("/sources/:id", sourceHandler.DeleteSource)
	r.POST("/sources/:id/run", sourceHandler.RunSource)
	r.GET("/sources/:id/executions", sourceHandler.GetExecutions)

	r.POST("/cron/validate", sourceHandler.ValidateCron)

	err = r.Run(":" + cfg.Server.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
