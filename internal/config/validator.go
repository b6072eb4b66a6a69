package config

import (
	"fmt"
	"net/url"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if u, err := url.Parse(c.Mongo.URI); err != nil || (u.Scheme != "mongodb" && u.Scheme != "mongodb+srv") {
		errors = append(errors, ValidationError{
			Field:   "mongo.uri",
			Message: "must be a mongodb:// or mongodb+srv:// URI",
		})
	}

	if c.Mongo.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "mongo.database",
			Message: "database name is required",
		})
	}

	if u, err := url.Parse(c.Redis.URL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
		errors = append(errors, ValidationError{
			Field:   "redis.url",
			Message: "must be a redis:// or rediss:// URL",
		})
	}

	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: "provider must be openai or anthropic",
		})
	}

	if c.Scraper.MaxPages < 1 {
		errors = append(errors, ValidationError{
			Field:   "scraper.max_pages",
			Message: "max_pages must be positive",
		})
	}

	if c.Scraper.MaxWorkers < 1 || c.Scraper.MaxWorkers > 50 {
		errors = append(errors, ValidationError{
			Field:   "scraper.max_workers",
			Message: "max_workers must be between 1 and 50",
		})
	}

	if c.Scraper.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Analyzer.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "analyzer.batch_size",
			Message: "batch_size must be positive",
		})
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "log_level",
			Message: "log_level must be one of debug, info, warn, error",
		})
	}

	return errors
}

// ValidateAnalyzer checks the keys only the analyzer worker needs.
func (c *Config) ValidateAnalyzer() []ValidationError {
	var errors []ValidationError

	if c.LLM.Provider == "openai" && c.LLM.OpenAIKey == "" {
		errors = append(errors, ValidationError{Field: "llm.openai_api_key", Message: "OPENAI_API_KEY is required"})
	}
	if c.LLM.Provider == "anthropic" && c.LLM.AnthropicKey == "" {
		errors = append(errors, ValidationError{Field: "llm.anthropic_api_key", Message: "ANTHROPIC_API_KEY is required"})
	}
	if c.Geocode.MapboxKey == "" {
		errors = append(errors, ValidationError{Field: "geocode.mapbox_api_key", Message: "MAPBOX_API_KEY is required"})
	}

	return errors
}
