package repository

import (
	"context"
	"fmt"
	"strings"

	"bv-connector/internal/domain"
	"bv-connector/internal/infrastructure/repository/entity"
	"bv-connector/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProductCatalog implements ProductCatalog using MongoDB, resolving
// image URLs against the store's media base URL.
type MongoProductCatalog struct {
	collection *mongo.Collection
	stores     ports.StoreRepository

	// media base URLs rarely change; cache per catalog instance.
	mediaBase map[int64]string
}

// NewMongoProductCatalog creates a new MongoDB product catalog.
func NewMongoProductCatalog(db *mongo.Database, stores ports.StoreRepository) ports.ProductCatalog {
	return &MongoProductCatalog{
		collection: db.Collection("products"),
		stores:     stores,
		mediaBase:  make(map[int64]string),
	}
}

// GetProduct resolves a product in the context of a store view. Returns nil
// when the product no longer exists.
func (c *MongoProductCatalog) GetProduct(ctx context.Context, productID string, storeID int64) (*domain.Product, error) {
	var doc entity.ProductDoc
	err := c.collection.FindOne(ctx, bson.M{"productId": productID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}

	name, image := doc.ForStore(storeID)

	product := &domain.Product{
		ID:         doc.ProductID,
		ExternalID: doc.ExternalID,
		Name:       name,
		Image:      image,
	}

	if product.HasImage() {
		base, err := c.mediaBaseURL(ctx, storeID)
		if err != nil {
			return nil, err
		}
		product.ImageURL = base + "/catalog/product/" + strings.TrimPrefix(image, "/")
	}

	return product, nil
}

func (c *MongoProductCatalog) mediaBaseURL(ctx context.Context, storeID int64) (string, error) {
	if base, ok := c.mediaBase[storeID]; ok {
		return base, nil
	}
	store, err := c.stores.GetStore(ctx, storeID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve media base for store %d: %w", storeID, err)
	}
	base := ""
	if store != nil {
		base = strings.TrimSuffix(store.BaseMediaURL, "/")
	}
	c.mediaBase[storeID] = base
	return base, nil
}
