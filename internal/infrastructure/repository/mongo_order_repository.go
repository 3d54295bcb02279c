package repository

import (
	"context"
	"fmt"
	"time"

	"bv-connector/internal/domain"
	"bv-connector/internal/infrastructure/repository/entity"
	"bv-connector/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository implements OrderRepository using MongoDB.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new MongoDB order repository.
func NewMongoOrderRepository(db *mongo.Database) ports.OrderRepository {
	return &MongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

// buildOrderFilter translates an OrderQuery into a bson filter. The unsent
// predicate uses $ne true, which also matches null and missing flags, so
// never-sent and explicitly-unsent orders both qualify.
func buildOrderFilter(q ports.OrderQuery) bson.M {
	filter := bson.M{}

	if len(q.Statuses) > 0 {
		statuses := make([]string, 0, len(q.Statuses))
		for _, s := range q.Statuses {
			statuses = append(statuses, string(s))
		}
		filter["status"] = bson.M{"$in": statuses}
	}
	if !q.CreatedFrom.IsZero() {
		filter["createdAt"] = bson.M{"$gte": q.CreatedFrom}
	}
	if q.OnlyUnsent {
		filter["sentInBvPostpurchaseFeed"] = bson.M{"$ne": true}
	}
	if q.StoreIDs != nil {
		filter["storeId"] = bson.M{"$in": q.StoreIDs}
	}

	return filter
}

// Count returns the number of orders matching the query.
func (r *MongoOrderRepository) Count(ctx context.Context, q ports.OrderQuery) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, buildOrderFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// Find returns the orders matching the query, oldest first so feed order is
// stable across runs.
func (r *MongoOrderRepository) Find(ctx context.Context, q ports.OrderQuery) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, buildOrderFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	for cursor.Next(ctx) {
		var doc entity.OrderDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		orders = append(orders, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

// MarkSent flips the sent-flag on a single order. A single-document update,
// atomic on the storage side.
func (r *MongoOrderRepository) MarkSent(ctx context.Context, orderID string) error {
	objID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", orderID, err)
	}

	result, err := r.collection.UpdateByID(ctx, objID, bson.M{
		"$set": bson.M{
			"sentInBvPostpurchaseFeed": true,
			"updatedAt":                time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to mark order sent: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}
