package repository

import (
	"context"
	"time"

	"newsbug/db"
	"newsbug/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ArticleRepository struct {
	collection *mongo.Collection
}

func NewArticleRepository(database *mongo.Database) *ArticleRepository {
	return &ArticleRepository{collection: database.Collection(db.ArticlesCollection)}
}

func (r *ArticleRepository) GetCompletedByCategory(ctx context.Context, categoryID string) ([]model.Article, error) {
	filter := bson.M{"categoryId": categoryID, "status": model.ArticleCompleted}
	opts := options.Find().SetSort(bson.D{{Key: "publishDate", Value: -1}, {Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var articles []model.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *ArticleRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"categoryId": categoryID})
}

func keywordPipeline(categoryID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"categoryId":     categoryID,
			"isArticleValid": true,
			"location":       bson.M{"$ne": model.UnknownLocation},
		}}},
		{{Key: "$unwind", Value: "$keywords"}},
		{{Key: "$match", Value: bson.M{
			"keywords.location": bson.M{"$ne": model.UnknownLocation},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":       0,
			"location":  "$keywords.location",
			"keyword":   "$keywords.keyword",
			"caseCount": "$keywords.caseCount",
			"latitude":  "$keywords.latitude",
			"longitude": "$keywords.longitude",
			"articleId": "$_id",
			"sourceId":  "$sourceId",
			"date":      bson.M{"$ifNull": bson.A{"$publishDate", "$createdAt"}},
		}}},
	}
}

type keywordRow struct {
	Location  string             `bson:"location"`
	Keyword   string             `bson:"keyword"`
	CaseCount int                `bson:"caseCount"`
	Latitude  float64            `bson:"latitude"`
	Longitude float64            `bson:"longitude"`
	ArticleID primitive.ObjectID `bson:"articleId"`
	SourceID  string             `bson:"sourceId"`
	Date      bson.RawValue      `bson:"date"`
}

// GetKeywords unwinds every located keyword of the category's valid articles.
func (r *ArticleRepository) GetKeywords(ctx context.Context, categoryID string) ([]model.KeywordDetails, error) {
	cursor, err := r.collection.Aggregate(ctx, keywordPipeline(categoryID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []keywordRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	keywords := make([]model.KeywordDetails, 0, len(rows))
	for i, row := range rows {
		keywords = append(keywords, model.KeywordDetails{
			ID:        i + 1,
			Keyword:   row.Keyword,
			CaseCount: row.CaseCount,
			Location:  row.Location,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			ArticleID: row.ArticleID.Hex(),
			SourceID:  row.SourceID,
			Date:      rawTime(row.Date),
		})
	}

	return keywords, nil
}

func (r *ArticleRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"url": url}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert stores the article unless one with the same URL exists; it reports
// whether a new document was written.
func (r *ArticleRepository) Insert(ctx context.Context, article *model.Article) (bool, error) {
	now := time.Now().UTC()
	article.ID = primitive.NewObjectID()
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.Status == "" {
		article.Status = model.ArticleDataExtracted
	}
	if article.Keywords == nil {
		article.Keywords = []model.Keyword{}
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"url": article.URL},
		bson.M{"$setOnInsert": article},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}

	return result.UpsertedCount == 1, nil
}

// busiestSourcePipeline finds the source with the most extracted articles.
// Only counts are grouped so the stage stays small on large backlogs.
func busiestSourcePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": model.ArticleDataExtracted}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$sourceId",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: 1}},
	}
}

func analysisBatchFilter(sourceID string) bson.M {
	return bson.M{"sourceId": sourceID, "status": model.ArticleDataExtracted}
}

// GetBatchForAnalysis returns up to limit extracted articles, oldest first, of
// the source with the most pending articles.
func (r *ArticleRepository) GetBatchForAnalysis(ctx context.Context, limit int) ([]model.Article, error) {
	cursor, err := r.collection.Aggregate(ctx, busiestSourcePipeline(), options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		return nil, err
	}

	var groups []struct {
		SourceID string `bson:"_id"`
	}
	err = cursor.All(ctx, &groups)
	cursor.Close(ctx)
	if err != nil {
		return nil, err
	}

	if len(groups) == 0 {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(limit))
	found, err := r.collection.Find(ctx, analysisBatchFilter(groups[0].SourceID), opts)
	if err != nil {
		return nil, err
	}
	defer found.Close(ctx)

	var articles []model.Article
	if err := found.All(ctx, &articles); err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *ArticleRepository) SaveAnalysis(ctx context.Context, analyses []model.ArticleAnalysis) error {
	if len(analyses) == 0 {
		return nil
	}

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(analyses))
	for _, a := range analyses {
		keywords := a.Keywords
		if keywords == nil {
			keywords = []model.Keyword{}
		}

		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": a.ArticleID}).
			SetUpdate(bson.M{"$set": bson.M{
				"keywords":       keywords,
				"isArticleValid": a.IsArticleValid,
				"updatedAt":      now,
				"status":         model.ArticleCompleted,
			}}))
	}

	_, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}
