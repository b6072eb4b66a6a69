package repository

import (
	"testing"
	"time"

	"newsbug/internal/model"

	"github.com/go-playground/assert/v2"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseID(t *testing.T) {
	_, err := parseID("not-an-id")
	assert.Equal(t, ErrInvalidID, err)

	oid, err := parseID("65f1c0a2b3d4e5f6a7b8c9d0")
	assert.Equal(t, nil, err)
	assert.Equal(t, "65f1c0a2b3d4e5f6a7b8c9d0", oid.Hex())
}

func TestKeywordPipeline(t *testing.T) {
	pipeline := keywordPipeline("cat-1")

	assert.Equal(t, 4, len(pipeline))
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, "$unwind", pipeline[1][0].Key)
	assert.Equal(t, "$keywords", pipeline[1][0].Value)
	assert.Equal(t, "$match", pipeline[2][0].Key)
	assert.Equal(t, "$project", pipeline[3][0].Key)

	match := pipeline[0][0].Value.(bson.M)
	assert.Equal(t, "cat-1", match["categoryId"])
	assert.Equal(t, true, match["isArticleValid"])

	located := pipeline[2][0].Value.(bson.M)
	assert.Equal(t, bson.M{"$ne": model.UnknownLocation}, located["keywords.location"])

	project := pipeline[3][0].Value.(bson.M)
	assert.Equal(t, "$_id", project["articleId"])
	assert.Equal(t, bson.M{"$ifNull": bson.A{"$publishDate", "$createdAt"}}, project["date"])
}

func TestBusiestSourcePipeline(t *testing.T) {
	pipeline := busiestSourcePipeline()

	assert.Equal(t, 4, len(pipeline))
	assert.Equal(t, bson.M{"status": model.ArticleDataExtracted}, pipeline[0][0].Value)
	// only the count is grouped, never the article documents
	assert.Equal(t, bson.M{"_id": "$sourceId", "count": bson.M{"$sum": 1}}, pipeline[1][0].Value)
	assert.Equal(t, bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}, pipeline[2][0].Value)
	assert.Equal(t, 1, pipeline[3][0].Value)
}

func TestAnalysisBatchFilter(t *testing.T) {
	assert.Equal(t, bson.M{"sourceId": "src-1", "status": model.ArticleDataExtracted}, analysisBatchFilter("src-1"))
}

func TestRawTime(t *testing.T) {
	want := time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)

	_, data, err := bson.MarshalValue(want)
	assert.Equal(t, nil, err)
	got := rawTime(bson.RawValue{Type: bson.TypeDateTime, Value: data})
	assert.Equal(t, true, got.Equal(want))

	_, data, err = bson.MarshalValue("2025-03-04T10:30:00")
	assert.Equal(t, nil, err)
	got = rawTime(bson.RawValue{Type: bson.TypeString, Value: data})
	assert.Equal(t, true, got.Equal(want))

	got = rawTime(bson.RawValue{Type: bson.TypeNull})
	assert.Equal(t, true, got.IsZero())
}
