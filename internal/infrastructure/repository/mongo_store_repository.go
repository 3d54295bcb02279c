package repository

import (
	"context"
	"fmt"

	"bv-connector/internal/domain"
	"bv-connector/internal/infrastructure/repository/entity"
	"bv-connector/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStoreRepository implements StoreRepository using MongoDB.
type MongoStoreRepository struct {
	stores   *mongo.Collection
	groups   *mongo.Collection
	websites *mongo.Collection
}

// NewMongoStoreRepository creates a new MongoDB store repository.
func NewMongoStoreRepository(db *mongo.Database) ports.StoreRepository {
	return &MongoStoreRepository{
		stores:   db.Collection("stores"),
		groups:   db.Collection("store_groups"),
		websites: db.Collection("websites"),
	}
}

// GetStore retrieves a store by id, returning nil when it does not exist.
func (r *MongoStoreRepository) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	var doc entity.StoreDoc
	err := r.stores.FindOne(ctx, bson.M{"storeId": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store %d: %w", id, err)
	}
	return doc.ToDomain(), nil
}

// ListStores returns all store views ordered by id.
func (r *MongoStoreRepository) ListStores(ctx context.Context) ([]*domain.Store, error) {
	opts := options.Find().SetSort(bson.D{{Key: "storeId", Value: 1}})
	cursor, err := r.stores.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer cursor.Close(ctx)

	var stores []*domain.Store
	for cursor.Next(ctx) {
		var doc entity.StoreDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode store: %w", err)
		}
		stores = append(stores, doc.ToDomain())
	}
	return stores, cursor.Err()
}

// ListStoreGroups returns all store groups ordered by id.
func (r *MongoStoreRepository) ListStoreGroups(ctx context.Context) ([]*domain.StoreGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "groupId", Value: 1}})
	cursor, err := r.groups.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list store groups: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []*domain.StoreGroup
	for cursor.Next(ctx) {
		var doc entity.StoreGroupDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode store group: %w", err)
		}
		groups = append(groups, doc.ToDomain())
	}
	return groups, cursor.Err()
}

// ListWebsites returns all websites ordered by id.
func (r *MongoStoreRepository) ListWebsites(ctx context.Context) ([]*domain.Website, error) {
	opts := options.Find().SetSort(bson.D{{Key: "websiteId", Value: 1}})
	cursor, err := r.websites.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list websites: %w", err)
	}
	defer cursor.Close(ctx)

	var websites []*domain.Website
	for cursor.Next(ctx) {
		var doc entity.WebsiteDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode website: %w", err)
		}
		websites = append(websites, doc.ToDomain())
	}
	return websites, cursor.Err()
}
