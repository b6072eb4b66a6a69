package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        string `yaml:"port"`
		FrontendURL string `yaml:"frontend_url"`
	} `yaml:"server"`

	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`

	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`

	LLM struct {
		Provider     string `yaml:"provider"`
		OpenAIKey    string `yaml:"openai_api_key"`
		AnthropicKey string `yaml:"anthropic_api_key"`
	} `yaml:"llm"`

	Geocode struct {
		MapboxKey string        `yaml:"mapbox_api_key"`
		CacheTTL  time.Duration `yaml:"cache_ttl"`
	} `yaml:"geocode"`

	Scraper struct {
		MaxPages    int           `yaml:"max_pages"`
		MaxDepth    int           `yaml:"max_depth"`
		MaxWorkers  int           `yaml:"max_workers"`
		RateLimit   float64       `yaml:"rate_limit"`
		Timeout     time.Duration `yaml:"timeout"`
		PopTimeout  time.Duration `yaml:"pop_timeout"`
		MaxBodySize int64         `yaml:"max_body_size"`
	} `yaml:"scraper"`

	Poller struct {
		Interval   time.Duration `yaml:"interval"`
		StaleAfter time.Duration `yaml:"stale_after"`
	} `yaml:"poller"`

	Analyzer struct {
		BatchSize int           `yaml:"batch_size"`
		Budget    time.Duration `yaml:"budget"`
		Interval  time.Duration `yaml:"interval"`
	} `yaml:"analyzer"`

	LogLevel string `yaml:"log_level"`
}

// Load reads .env, then the YAML file named by path (or CONFIG_FILE), then
// environment overrides, then defaults.
func Load(path string) (*Config, error) {
	godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}

	config := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	mergeWithEnv(config)
	applyDefaults(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}

	if config.Mongo.URI == "" {
		config.Mongo.URI = "mongodb://localhost:27017"
	}
	if config.Mongo.Database == "" {
		config.Mongo.Database = "newsdb"
	}

	if config.Redis.URL == "" {
		config.Redis.URL = "redis://localhost:6379/0"
	}

	if config.LLM.Provider == "" {
		config.LLM.Provider = "openai"
	}

	if config.Geocode.CacheTTL == 0 {
		config.Geocode.CacheTTL = 30 * 24 * time.Hour
	}

	if config.Scraper.MaxPages == 0 {
		config.Scraper.MaxPages = 20
	}
	if config.Scraper.MaxDepth == 0 {
		config.Scraper.MaxDepth = 2
	}
	if config.Scraper.MaxWorkers == 0 {
		config.Scraper.MaxWorkers = 5
	}
	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 5
	}
	if config.Scraper.Timeout == 0 {
		config.Scraper.Timeout = 15 * time.Second
	}
	if config.Scraper.PopTimeout == 0 {
		config.Scraper.PopTimeout = 5 * time.Second
	}
	if config.Scraper.MaxBodySize == 0 {
		config.Scraper.MaxBodySize = 5 << 20
	}

	if config.Poller.Interval == 0 {
		config.Poller.Interval = time.Minute
	}
	if config.Poller.StaleAfter == 0 {
		config.Poller.StaleAfter = time.Hour
	}

	if config.Analyzer.BatchSize == 0 {
		config.Analyzer.BatchSize = 10
	}
	if config.Analyzer.Budget == 0 {
		config.Analyzer.Budget = 10 * time.Minute
	}
	if config.Analyzer.Interval == 0 {
		config.Analyzer.Interval = 5 * time.Minute
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

func mergeWithEnv(config *Config) {
	setString(&config.Server.Port, "PORT")
	setString(&config.Server.FrontendURL, "FRONTEND_URL")
	setString(&config.Mongo.URI, "MONGODB_URI")
	setString(&config.Mongo.Database, "MONGODB_DB")
	setString(&config.Redis.URL, "REDIS_URL")
	setString(&config.LLM.Provider, "LLM_PROVIDER")
	setString(&config.LLM.OpenAIKey, "OPENAI_API_KEY")
	setString(&config.LLM.AnthropicKey, "ANTHROPIC_API_KEY")
	setString(&config.Geocode.MapboxKey, "MAPBOX_API_KEY")
	setString(&config.LogLevel, "LOG_LEVEL")

	setInt(&config.Scraper.MaxPages, "SCRAPER_MAX_PAGES")
	setInt(&config.Scraper.MaxDepth, "SCRAPER_MAX_DEPTH")
	setInt(&config.Scraper.MaxWorkers, "SCRAPER_MAX_WORKERS")
	setInt(&config.Analyzer.BatchSize, "ANALYZER_BATCH_SIZE")

	setDuration(&config.Poller.Interval, "POLLER_INTERVAL")
	setDuration(&config.Analyzer.Budget, "ANALYZER_BUDGET")
	setDuration(&config.Analyzer.Interval, "ANALYZER_INTERVAL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
