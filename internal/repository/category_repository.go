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

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(database *mongo.Database) *CategoryRepository {
	return &CategoryRepository{collection: database.Collection(db.CategoriesCollection)}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	now := time.Now().UTC()
	category.ID = primitive.NilObjectID
	category.CreatedAt = now
	category.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		return err
	}

	category.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []model.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var category model.Category
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, category *model.Category) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"title":       category.Title,
			"keywords":    category.Keywords,
			"description": category.Description,
			"updatedAt":   time.Now().UTC(),
		},
	})
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) (bool, error) {
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

func (r *CategoryRepository) GetKeywords(ctx context.Context, id string) ([]string, error) {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if category == nil {
		return nil, nil
	}

	return category.Keywords, nil
}
