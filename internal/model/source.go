package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SourceStatus string

const (
	SourceIdle    SourceStatus = "idle"
	SourceRunning SourceStatus = "running"
	SourceFailed  SourceStatus = "failed"
)

const (
	ExecutionRunning   = "running"
	ExecutionCompleted = "completed"
	ExecutionFailed    = "failed"
)

const (
	DefaultRetryCount = 3
	HistoryLimit      = 100
)

type Source struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	URL              string             `bson:"url"`
	CategoryID       string             `bson:"categoryId"`
	CronSchedule     string             `bson:"cronSchedule"`
	IsActive         bool               `bson:"isActive"`
	Status           SourceStatus       `bson:"status"`
	ExecutionHistory []JobExecution     `bson:"executionHistory"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
	LastRunAt        *time.Time         `bson:"lastRunAt"`
	NextRunAt        *time.Time         `bson:"nextRunAt"`
	LastError        *string            `bson:"lastError"`
	CurrentRetry     int                `bson:"currentRetry"`
	RetryCount       int                `bson:"retryCount,omitempty"`
}

// MaxRetries falls back to DefaultRetryCount for sources created without one.
func (s *Source) MaxRetries() int {
	if s.RetryCount > 0 {
		return s.RetryCount
	}
	return DefaultRetryCount
}

type JobExecution struct {
	ID          string         `bson:"id"`
	StartedAt   time.Time      `bson:"startedAt"`
	CompletedAt *time.Time     `bson:"completedAt,omitempty"`
	Status      string         `bson:"status"`
	Error       string         `bson:"error,omitempty"`
	Duration    int64          `bson:"duration,omitempty"`
	Metadata    map[string]any `bson:"metadata,omitempty"`
}

// SourceUpdate carries the editable fields of a source; nil fields are left untouched.
type SourceUpdate struct {
	Title        *string
	URL          *string
	CronSchedule *string
	IsActive     *bool
}

// ScrapeJob is the payload pushed onto the scrape queue by the poller.
type ScrapeJob struct {
	JobID     string    `json:"jobId"`
	SourceID  string    `json:"sourceId"`
	StartedAt time.Time `json:"startedAt"`
}
