package ports

import (
	"context"
	"time"

	"bv-connector/internal/domain"
)

// OrderQuery is the eligibility predicate handed to the order store.
// StoreIDs nil means no scope restriction (global feed).
type OrderQuery struct {
	Statuses    []domain.OrderStatus
	CreatedFrom time.Time
	OnlyUnsent  bool
	StoreIDs    []int64
}

// OrderRepository defines the interface for order persistence. Find returns
// matching orders ordered by creation time; MarkSent is the single-row,
// atomic sent-flag transition that makes the feed idempotent across runs.
type OrderRepository interface {
	Count(ctx context.Context, q OrderQuery) (int64, error)
	Find(ctx context.Context, q OrderQuery) ([]*domain.Order, error)
	MarkSent(ctx context.Context, orderID string) error
}
