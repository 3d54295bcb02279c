package ports

import (
	"context"

	"bv-connector/internal/domain"
)

// StoreRepository defines the interface for store topology lookups.
// GetStore returns nil (not an error) when the store does not exist.
type StoreRepository interface {
	GetStore(ctx context.Context, id int64) (*domain.Store, error)
	ListStores(ctx context.Context) ([]*domain.Store, error)
	ListStoreGroups(ctx context.Context) ([]*domain.StoreGroup, error)
	ListWebsites(ctx context.Context) ([]*domain.Website, error)
}
