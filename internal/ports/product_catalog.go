package ports

import (
	"context"

	"bv-connector/internal/domain"
)

// ProductCatalog resolves catalog data for a product in the context of a
// specific store (name and image can vary per store). Returns nil when the
// product no longer exists.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string, storeID int64) (*domain.Product, error)
}
