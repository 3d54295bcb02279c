package repository

import (
	"context"
	"fmt"

	"bv-connector/internal/domain"
	"bv-connector/internal/infrastructure/repository/entity"
	"bv-connector/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoFeedConfigRepository implements FeedConfigRepository using MongoDB.
// Settings live in the feed_settings collection, one document per store id;
// store id 0 holds the platform defaults.
type MongoFeedConfigRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedConfigRepository creates a new MongoDB feed config repository.
func NewMongoFeedConfigRepository(db *mongo.Database) ports.FeedConfigRepository {
	return &MongoFeedConfigRepository{
		collection: db.Collection("feed_settings"),
	}
}

// ForStore resolves the config snapshot for a store, falling back to the
// platform defaults when the store has no settings of its own.
func (r *MongoFeedConfigRepository) ForStore(ctx context.Context, storeID int64) (*domain.FeedConfig, error) {
	doc, err := r.find(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if doc == nil && storeID != domain.AdminStoreID {
		doc, err = r.find(ctx, domain.AdminStoreID)
		if err != nil {
			return nil, err
		}
	}
	if doc == nil {
		return nil, nil
	}

	cfg, err := doc.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("invalid feed settings for store %d: %w", storeID, err)
	}
	return cfg, nil
}

func (r *MongoFeedConfigRepository) find(ctx context.Context, storeID int64) (*entity.FeedSettingsDoc, error) {
	var doc entity.FeedSettingsDoc
	err := r.collection.FindOne(ctx, bson.M{"storeId": storeID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed settings for store %d: %w", storeID, err)
	}
	return &doc, nil
}
