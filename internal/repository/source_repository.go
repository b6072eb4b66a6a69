package repository

import (
	"context"
	"errors"
	"time"

	"newsbug/db"
	"newsbug/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SourceRepository struct {
	collection *mongo.Collection
}

func NewSourceRepository(database *mongo.Database) *SourceRepository {
	return &SourceRepository{collection: database.Collection(db.SourcesCollection)}
}

func (r *SourceRepository) Create(ctx context.Context, source *model.Source) error {
	now := time.Now().UTC()
	source.ID = primitive.NilObjectID
	source.Status = model.SourceIdle
	source.ExecutionHistory = []model.JobExecution{}
	source.CreatedAt = now
	source.UpdatedAt = now
	source.LastRunAt = nil
	source.NextRunAt = nil
	source.LastError = nil
	source.CurrentRetry = 0

	result, err := r.collection.InsertOne(ctx, source)
	if err != nil {
		return err
	}

	source.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *SourceRepository) GetByCategory(ctx context.Context, categoryID string) ([]model.Source, error) {
	opts := options.Find().
		SetProjection(bson.M{"executionHistory": 0}).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"categoryId": categoryID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sources []model.Source
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, err
	}

	return sources, nil
}

func (r *SourceRepository) GetByID(ctx context.Context, id string) (*model.Source, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var source model.Source
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&source)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &source, nil
}

// Update applies the non-nil fields. A changed schedule clears nextRunAt so the
// poller recomputes it on the next cycle.
func (r *SourceRepository) Update(ctx context.Context, id string, update model.SourceUpdate) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.URL != nil {
		set["url"] = *update.URL
	}
	if update.CronSchedule != nil {
		set["cronSchedule"] = *update.CronSchedule
		set["nextRunAt"] = nil
	}
	if update.IsActive != nil {
		set["isActive"] = *update.IsActive
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

func (r *SourceRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}

func (r *SourceRepository) DeleteByCategory(ctx context.Context, categoryID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"categoryId": categoryID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// GetDue returns active sources that are not running and whose next run is due
// or has never been computed.
func (r *SourceRepository) GetDue(ctx context.Context, now time.Time) ([]model.Source, error) {
	filter := bson.M{
		"isActive": true,
		"status":   bson.M{"$ne": model.SourceRunning},
		"$or": bson.A{
			bson.M{"nextRunAt": bson.M{"$lte": now}},
			bson.M{"nextRunAt": nil},
		},
	}

	opts := options.Find().SetProjection(bson.M{"executionHistory": 0})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sources []model.Source
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, err
	}

	return sources, nil
}

// Claim marks the source running unless another poller already did.
func (r *SourceRepository) Claim(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": model.SourceRunning}},
		bson.M{"$set": bson.M{"status": model.SourceRunning, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}

	return result.ModifiedCount == 1, nil
}

// ResetStale returns sources stuck in running since before cutoff to idle.
func (r *SourceRepository) ResetStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"status": model.SourceRunning, "updatedAt": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{
			"status":    model.SourceIdle,
			"lastError": "job timed out",
			"updatedAt": time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *SourceRepository) Complete(ctx context.Context, id primitive.ObjectID, exec model.JobExecution, nextRunAt *time.Time) error {
	return r.recordExecution(ctx, id, exec, bson.M{
		"status":       model.SourceIdle,
		"lastRunAt":    exec.CompletedAt,
		"nextRunAt":    nextRunAt,
		"lastError":    nil,
		"currentRetry": 0,
	})
}

func (r *SourceRepository) Fail(ctx context.Context, id primitive.ObjectID, exec model.JobExecution, status model.SourceStatus, nextRunAt *time.Time, currentRetry int) error {
	return r.recordExecution(ctx, id, exec, bson.M{
		"status":       status,
		"lastRunAt":    exec.CompletedAt,
		"nextRunAt":    nextRunAt,
		"lastError":    exec.Error,
		"currentRetry": currentRetry,
	})
}

func (r *SourceRepository) recordExecution(ctx context.Context, id primitive.ObjectID, exec model.JobExecution, set bson.M) error {
	set["updatedAt"] = time.Now().UTC()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": set,
		"$push": bson.M{
			"executionHistory": bson.M{
				"$each":  bson.A{exec},
				"$slice": -model.HistoryLimit,
			},
		},
	})
	return err
}

// RequestRun makes the source due on the next poll.
func (r *SourceRepository) RequestRun(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"nextRunAt": now, "updatedAt": now},
	})
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}
