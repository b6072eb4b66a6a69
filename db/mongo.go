package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CategoriesCollection = "categories"
	SourcesCollection    = "sources"
	ArticlesCollection   = "articles"
)

var Client *mongo.Client
var DB *mongo.Database

func Connect(uri, database string) error {
	if uri == "" {
		return fmt.Errorf("mongodb uri is empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetMaxConnIdleTime(5 * time.Minute)

	var err error
	Client, err = mongo.Connect(ctx, opts)
	if err != nil {
		return err
	}

	DB = Client.Database(database)

	return Client.Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the API and workers query on.
func EnsureIndexes(ctx context.Context) error {
	_, err := DB.Collection(SourcesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "categoryId", Value: 1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "status", Value: 1}, {Key: "nextRunAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("source indexes: %w", err)
	}

	_, err = DB.Collection(ArticlesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "url", Value: 1}}},
		{Keys: bson.D{{Key: "categoryId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "sourceId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("article indexes: %w", err)
	}

	return nil
}

func Close() {
	if Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		Client.Disconnect(ctx)
	}
}

func Ping(ctx context.Context) error {
	if Client == nil {
		return fmt.Errorf("mongodb not connected")
	}
	return Client.Ping(ctx, nil)
}
