package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ArticleStatus string

const (
	ArticleDataExtracted ArticleStatus = "data_extracted"
	ArticleCompleted     ArticleStatus = "completed"
)

const UnknownLocation = "unknown"

type Article struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Content        string             `bson:"content"`
	Summary        string             `bson:"summary,omitempty"`
	SourceID       string             `bson:"sourceId"`
	CategoryID     string             `bson:"categoryId"`
	URL            string             `bson:"url"`
	PublishDate    *time.Time         `bson:"publishDate"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
	Keywords       []Keyword          `bson:"keywords"`
	IsArticleValid bool               `bson:"isArticleValid"`
	Status         ArticleStatus      `bson:"status"`
	Metadata       ArticleMetadata    `bson:"metadata"`
}

type ArticleMetadata struct {
	Authors          []string `bson:"authors"`
	TopImage         string   `bson:"topImage,omitempty"`
	PageKeywords     []string `bson:"pageKeywords,omitempty"`
	CategoryKeywords []string `bson:"categoryKeywords"`
	MatchedKeywords  []string `bson:"matchedKeywords"`
}

// Keyword is a location-tagged mention extracted from an article.
type Keyword struct {
	Keyword   string  `bson:"keyword"`
	Location  string  `bson:"location"`
	CaseCount int     `bson:"caseCount"`
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

// KeywordDetails is one unwound keyword row as plotted on the map and table.
type KeywordDetails struct {
	ID        int
	Keyword   string
	CaseCount int
	Location  string
	Latitude  float64
	Longitude float64
	ArticleID string
	SourceID  string
	Date      time.Time
}

// ArticleAnalysis is the analysis result written back onto an article.
type ArticleAnalysis struct {
	ArticleID      primitive.ObjectID
	IsArticleValid bool
	Keywords       []Keyword
}
