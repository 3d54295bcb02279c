package application

import (
	"context"
	"fmt"
	"time"

	"bv-connector/internal/domain"
	"bv-connector/internal/ports"

	"github.com/rs/zerolog"
)

// OrderFilter builds the order eligibility predicate for a scope unit and
// gates units whose feed is administratively disabled.
type OrderFilter struct {
	config ports.FeedConfigRepository
	logger zerolog.Logger
}

// NewOrderFilter creates a new order filter.
func NewOrderFilter(config ports.FeedConfigRepository, logger zerolog.Logger) *OrderFilter {
	return &OrderFilter{
		config: config,
		logger: logger,
	}
}

// Gate resolves the unit's config snapshot and reports whether the feed is
// enabled for it. Both the purchase-feed switch and the master integration
// switch must be on; a disabled unit is skipped without any order query.
func (f *OrderFilter) Gate(ctx context.Context, unit domain.ScopeUnit) (bool, *domain.FeedConfig, error) {
	cfg, err := f.config.ForStore(ctx, unit.DefaultStore.ID)
	if err != nil {
		return false, nil, fmt.Errorf("%w: feed config for store %d: %v", domain.ErrConfiguration, unit.DefaultStore.ID, err)
	}
	if cfg == nil {
		return false, nil, fmt.Errorf("%w: no feed config for store %d", domain.ErrConfiguration, unit.DefaultStore.ID)
	}

	if !cfg.FeedActive() {
		f.logger.Info().
			Str("scope", string(unit.Mode)).
			Str("unit", unit.Label).
			Msg("Purchase feed disabled, skipping")
		return false, cfg, nil
	}
	return true, cfg, nil
}

// Query builds the eligibility predicate for the unit: completed or closed
// status, created within the lookback window, not yet sent, and narrowed to
// the unit's member stores.
func (f *OrderFilter) Query(unit domain.ScopeUnit, cfg *domain.FeedConfig, now time.Time) ports.OrderQuery {
	return ports.OrderQuery{
		Statuses:    domain.EligibleOrderStatuses,
		CreatedFrom: LookbackStart(now, cfg.LookbackDays),
		OnlyUnsent:  true,
		StoreIDs:    unit.StoreIDs,
	}
}

// LookbackStart computes the inclusive lower bound of the eligibility
// window: now truncated to the start of its day, minus the lookback days.
// Orders created exactly on the boundary are eligible.
func LookbackStart(now time.Time, lookbackDays int) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -lookbackDays)
}
