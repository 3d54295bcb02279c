package ports

import (
	"context"

	"bv-connector/internal/domain"
)

// FeedConfigRepository resolves the feed configuration snapshot for a store
// scope, falling back to the platform defaults when the store has no
// settings of its own.
type FeedConfigRepository interface {
	ForStore(ctx context.Context, storeID int64) (*domain.FeedConfig, error)
}
