package application

import (
	"context"
	"fmt"

	"bv-connector/internal/domain"
	"bv-connector/internal/ports"

	"github.com/rs/zerolog"
)

// ScopeResolver enumerates the scope units to generate feeds for, based on
// the configured generation scope. Pure enumeration, no side effects.
type ScopeResolver struct {
	stores ports.StoreRepository
	logger zerolog.Logger
}

// NewScopeResolver creates a new scope resolver.
func NewScopeResolver(stores ports.StoreRepository, logger zerolog.Logger) *ScopeResolver {
	return &ScopeResolver{
		stores: stores,
		logger: logger,
	}
}

// Resolve returns the ordered scope units for the given mode. Store-group
// and website units carry their default store for config and product
// context; the global unit uses the admin store and no store restriction.
func (r *ScopeResolver) Resolve(ctx context.Context, mode domain.ScopeMode) ([]domain.ScopeUnit, error) {
	switch mode {
	case domain.ScopeModeStore:
		return r.resolveStores(ctx)
	case domain.ScopeModeStoreGroup:
		return r.resolveStoreGroups(ctx)
	case domain.ScopeModeWebsite:
		return r.resolveWebsites(ctx)
	case domain.ScopeModeGlobal:
		return r.resolveGlobal(ctx)
	}
	return nil, fmt.Errorf("%w: unknown generation scope %q", domain.ErrConfiguration, mode)
}

func (r *ScopeResolver) resolveStores(ctx context.Context) ([]domain.ScopeUnit, error) {
	stores, err := r.stores.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list stores: %v", domain.ErrDataAccess, err)
	}

	units := make([]domain.ScopeUnit, 0, len(stores))
	for _, store := range stores {
		if store.ID == domain.AdminStoreID {
			continue
		}
		units = append(units, domain.ScopeUnit{
			Mode:         domain.ScopeModeStore,
			ID:           store.ID,
			Label:        store.Code,
			DefaultStore: store,
			StoreIDs:     []int64{store.ID},
		})
	}
	return units, nil
}

func (r *ScopeResolver) resolveStoreGroups(ctx context.Context) ([]domain.ScopeUnit, error) {
	groups, err := r.stores.ListStoreGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list store groups: %v", domain.ErrDataAccess, err)
	}
	stores, err := r.stores.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list stores: %v", domain.ErrDataAccess, err)
	}

	units := make([]domain.ScopeUnit, 0, len(groups))
	for _, group := range groups {
		defaultStore, err := r.stores.GetStore(ctx, group.DefaultStoreID)
		if err != nil {
			return nil, fmt.Errorf("%w: default store for group %d: %v", domain.ErrDataAccess, group.ID, err)
		}
		if defaultStore == nil {
			r.logger.Warn().Int64("group_id", group.ID).Msg("Store group has no default store, skipping")
			continue
		}

		var memberIDs []int64
		for _, store := range stores {
			if store.GroupID == group.ID {
				memberIDs = append(memberIDs, store.ID)
			}
		}
		units = append(units, domain.ScopeUnit{
			Mode:         domain.ScopeModeStoreGroup,
			ID:           group.ID,
			Label:        group.Name,
			DefaultStore: defaultStore,
			StoreIDs:     memberIDs,
		})
	}
	return units, nil
}

func (r *ScopeResolver) resolveWebsites(ctx context.Context) ([]domain.ScopeUnit, error) {
	websites, err := r.stores.ListWebsites(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list websites: %v", domain.ErrDataAccess, err)
	}
	stores, err := r.stores.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list stores: %v", domain.ErrDataAccess, err)
	}

	units := make([]domain.ScopeUnit, 0, len(websites))
	for _, website := range websites {
		defaultStore, err := r.stores.GetStore(ctx, website.DefaultStoreID)
		if err != nil {
			return nil, fmt.Errorf("%w: default store for website %d: %v", domain.ErrDataAccess, website.ID, err)
		}
		if defaultStore == nil {
			r.logger.Warn().Int64("website_id", website.ID).Msg("Website has no default store, skipping")
			continue
		}

		var memberIDs []int64
		for _, store := range stores {
			if store.WebsiteID == website.ID {
				memberIDs = append(memberIDs, store.ID)
			}
		}
		units = append(units, domain.ScopeUnit{
			Mode:         domain.ScopeModeWebsite,
			ID:           website.ID,
			Label:        website.Name,
			DefaultStore: defaultStore,
			StoreIDs:     memberIDs,
		})
	}
	return units, nil
}

func (r *ScopeResolver) resolveGlobal(ctx context.Context) ([]domain.ScopeUnit, error) {
	adminStore, err := r.stores.GetStore(ctx, domain.AdminStoreID)
	if err != nil {
		return nil, fmt.Errorf("%w: admin store: %v", domain.ErrDataAccess, err)
	}
	if adminStore == nil {
		return nil, fmt.Errorf("%w: admin store not found", domain.ErrConfiguration)
	}

	return []domain.ScopeUnit{{
		Mode:         domain.ScopeModeGlobal,
		ID:           domain.AdminStoreID,
		Label:        "global",
		DefaultStore: adminStore,
		StoreIDs:     nil,
	}}, nil
}
