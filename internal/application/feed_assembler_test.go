package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"bv-connector/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(families bool) *domain.FeedConfig {
	return &domain.FeedConfig{
		IntegrationEnabled: true,
		Enabled:            true,
		TriggeringEvent:    domain.TriggerPurchase,
		LookbackDays:       7,
		Families:           families,
		GenerationScope:    domain.ScopeModeStore,
		ClientName:         "acme",
		Locale:             "en_US",
	}
}

func localeConfigRepo(locale string) *mockConfigRepo {
	return &mockConfigRepo{
		forStoreFn: func(ctx context.Context, storeID int64) (*domain.FeedConfig, error) {
			cfg := testConfig(false)
			cfg.Locale = locale
			return cfg, nil
		},
	}
}

func newAssembler(repo *mockOrderRepo, catalog *mockCatalog, config *mockConfigRepo) *FeedAssembler {
	return NewFeedAssembler(repo, catalog, config, zerolog.Nop())
}

func TestAssembleSingleVisibleItem(t *testing.T) {
	created := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	order := &domain.Order{
		ID:            "o100",
		IncrementID:   "100",
		StoreID:       1,
		Status:        domain.OrderStatusComplete,
		CustomerID:    "42",
		CustomerEmail: "jane@example.com",
		CreatedAt:     created,
		Items: []domain.LineItem{
			{ID: "i1", ProductID: "p1", ProductType: domain.ProductTypeSimple, OriginalPrice: 19.99, Visible: true},
		},
	}
	catalog := &mockCatalog{products: map[string]*domain.Product{
		"p1": {ID: "p1", ExternalID: "SKU-1", Name: "Mug", Image: "/m/u/mug.jpg", ImageURL: "https://cdn.example.com/catalog/product/m/u/mug.jpg"},
	}}
	repo := &mockOrderRepo{}
	w := &mockWriter{}

	stats, err := newAssembler(repo, catalog, localeConfigRepo("en_US")).
		Assemble(context.Background(), []*domain.Order{order}, testConfig(false), w)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Written)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, []string{"o100"}, repo.marked)
	assert.Equal(t, created.Format(time.RFC3339), w.text("TransactionDate"))
	assert.Equal(t, "jane@example.com", w.text("EmailAddress"))
	assert.Equal(t, "en_US", w.text("Locale"))
	assert.Equal(t, "42", w.text("UserID"))
	assert.Equal(t, []string{"SKU-1"}, w.texts("ExternalId"))
	assert.Equal(t, []string{"19.99"}, w.texts("Price"))
	assert.Equal(t, []string{"https://cdn.example.com/catalog/product/m/u/mug.jpg"}, w.texts("ImageUrl"))
}

func TestAssembleFamiliesParentSkippedChildUsesParentPriceAndImage(t *testing.T) {
	order := &domain.Order{
		ID:          "o101",
		IncrementID: "101",
		StoreID:     1,
		Status:      domain.OrderStatusComplete,
		CustomerID:  "7",
		CreatedAt:   time.Now().Add(-24 * time.Hour),
		Items: []domain.LineItem{
			{ID: "parent", ProductID: "conf", ProductType: domain.ProductTypeConfigurable, OriginalPrice: 45.00, Visible: true},
			{ID: "child", ProductID: "variant", ProductType: domain.ProductTypeSimple, OriginalPrice: 0.00, ParentItemID: "parent", Visible: false},
		},
	}
	catalog := &mockCatalog{products: map[string]*domain.Product{
		"conf":    {ID: "conf", ExternalID: "FAM-1", Name: "Shirt", Image: "/s/h/shirt.jpg", ImageURL: "https://cdn.example.com/catalog/product/s/h/shirt.jpg"},
		"variant": {ID: "variant", ExternalID: "FAM-1-RED", Name: "Shirt Red", Image: domain.NoImageSentinel},
	}}
	repo := &mockOrderRepo{}
	w := &mockWriter{}

	stats, err := newAssembler(repo, catalog, localeConfigRepo("en_US")).
		Assemble(context.Background(), []*domain.Order{order}, testConfig(true), w)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Written)
	// The configurable parent row itself is never emitted.
	assert.Equal(t, []string{"FAM-1-RED"}, w.texts("ExternalId"))
	assert.Equal(t, []string{"45.00"}, w.texts("Price"))
	assert.Equal(t, []string{"https://cdn.example.com/catalog/product/s/h/shirt.jpg"}, w.texts("ImageUrl"))
}

func TestAssembleVariantKeepsOwnImageWhenPresent(t *testing.T) {
	order := &domain.Order{
		ID:         "o1",
		StoreID:    1,
		CustomerID: "7",
		CreatedAt:  time.Now(),
		Items: []domain.LineItem{
			{ID: "parent", ProductID: "conf", ProductType: domain.ProductTypeConfigurable, OriginalPrice: 30.00, Visible: true},
			{ID: "child", ProductID: "variant", ProductType: domain.ProductTypeSimple, OriginalPrice: 0, ParentItemID: "parent"},
		},
	}
	catalog := &mockCatalog{products: map[string]*domain.Product{
		"conf":    {ID: "conf", ExternalID: "FAM-2", Image: "/p.jpg", ImageURL: "https://cdn.example.com/catalog/product/p.jpg"},
		"variant": {ID: "variant", ExternalID: "FAM-2-XL", Image: "/v.jpg", ImageURL: "https://cdn.example.com/catalog/product/v.jpg"},
	}}
	w := &mockWriter{}

	_, err := newAssembler(&mockOrderRepo{}, catalog, localeConfigRepo("en_US")).
		Assemble(context.Background(), []*domain.Order{order}, testConfig(true), w)
	require.NoError(t, err)

	// Fallback only triggers on the no-image sentinel.
	assert.Equal(t, []string{"https://cdn.example.com/catalog/product/v.jpg"}, w.texts("ImageUrl"))
	assert.Equal(t, []string{"30.00"}, w.texts("Price"))
}

func TestAssembleParentPriceWinsWithFamiliesDisabled(t *testing.T) {
	order := &domain.Order{
		ID:         "o2",
		StoreID:    1,
		CustomerID: "9",
		CreatedAt:  time.Now(),
		Items: []domain.LineItem{
			{ID: "parent", ProductID: "conf", ProductType: domain.ProductTypeConfigurable, OriginalPrice: 25.00, Visible: false},
			{ID: "child", ProductID: "variant", ProductType: domain.ProductTypeSimple, OriginalPrice: 99.99, ParentItemID: "parent", Visible: true},
		},
	}
	catalog := &mockCatalog{products: map[string]*domain.Product{
		"variant": {ID: "variant", ExternalID: "V-1", Image: "/v.jpg", ImageURL: "https://cdn.example.com/catalog/product/v.jpg"},
	}}
	w := &mockWriter{}

	_, err := newAssembler(&mockOrderRepo{}, catalog, localeConfigRepo("en_US")).
		Assemble(context.Background(), []*domain.Order{order}, testConfig(false), w)
	require.NoError(t, err)

	// A variant's emitted price is always its parent's original price.
	assert.Equal(t, []string{"25.00"}, w.texts("Price"))
}

func TestAssembleGuestUserIDDeterministic(t *testing.T) {
	makeOrder := func(id string) *domain.Order {
		return &domain.Order{
			ID:            id,
			StoreID:       1,
			CustomerEmail: "guest@example.com",
			CreatedAt:     time.Now(),
		}
	}
	catalog := &mockCatalog{products: map[string]*domain.Product{}}
	config := localeConfigRepo("en_US")

	w1 := &mockWriter{}
	_, err := newAssembler(&mockOrderRepo{}, catalog, config).
		Assemble(context.Background(), []*domain.Order{makeOrder("a")}, testConfig(false), w1)
	require.NoError(t, err)

	w2 := &mockWriter{}
	_, err = newAssembler(&mockOrderRepo{}, catalog, config).
		Assemble(context.Background(), []*domain.Order{makeOrder("b")}, testConfig(false), w2)
	require.NoError(t, err)

	assert.NotEmpty(t, w1.text("UserID"))
	assert.Equal(t, w1.text("UserID"), w2.text("UserID"))
}

func TestAssembleShipTriggerUsesLatestShipment(t *testing.T) {
	t1 := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 8, 28, 16, 30, 0, 0, time.UTC)
	order := &domain.Order{
		ID:         "o3",
		StoreID:    1,
		CustomerID: "5",
		CreatedAt:  t1.Add(-48 * time.Hour),
		Shipments: []domain.Shipment{
			{ID: "s1", CreatedAt: t1},
			{ID: "s2", CreatedAt: t2},
		},
	}
	cfg := testConfig(false)
	cfg.TriggeringEvent = domain.TriggerShip
	w := &mockWriter{}

	_, err := newAssembler(&mockOrderRepo{}, &mockCatalog{}, localeConfigRepo("en_US")).
		Assemble(context.Background(), []*domain.Order{order}, cfg, w)
	require.NoError(t, err)

	assert.Equal(t, t2.Format(time.RFC3339), w.text("TransactionDate"))
}

func TestAssembleShipTriggerWithoutShipmentsSkipsOrder(t *testing.T) {
	order := &domain.Order{
		ID:         "o4",
		StoreID:    1,
		CustomerID: "5",
		CreatedAt:  time.Now(),
	}
	cfg := testConfig(false)
	cfg.TriggeringEvent = domain.TriggerShip
	repo := &mockOrderRepo{}
	w := &mockWriter{}

	stats, err := newAssembler(repo, &mockCatalog{}, localeConfigRepo("en_US")).
		Assemble(context.Background(), []*domain.Order{order}, cfg, w)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Written)
	assert.Equal(t, 1, stats.Skipped)
	assert.Empty(t, repo.marked)
	assert.Empty(t, w.events)
}

func TestAssembleProductLoadFailureSkipsOrderUnflagged(t *testing.T) {
	bad := &domain.Order{
		ID:         "bad",
		StoreID:    1,
		CustomerID: "1",
		CreatedAt:  time.Now(),
		Items:      []domain.LineItem{{ID: "i1", ProductID: "gone", Visible: true, OriginalPrice: 5}},
	}
	good := &domain.Order{
		ID:         "good",
		StoreID:    1,
		CustomerID: "2",
		CreatedAt:  time.Now(),
		Items:      []domain.LineItem{{ID: "i1", ProductID: "p1", Visible: true, OriginalPrice: 5}},
	}
	catalog := &mockCatalog{products: map[string]*domain.Product{
		"p1": {ID: "p1", ExternalID: "OK-1", Image: "/p.jpg", ImageURL: "https://cdn.example.com/catalog/product/p.jpg"},
	}}
	repo := &mockOrderRepo{}
	w := &mockWriter{}

	stats, err := newAssembler(repo, catalog, localeConfigRepo("en_US")).
		Assemble(context.Background(), []*domain.Order{bad, good}, testConfig(false), w)
	require.NoError(t, err)

	// The failed order is skipped without flagging; the rest of the unit
	// continues and the document stays well-formed.
	assert.Equal(t, 1, stats.Written)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, []string{"good"}, repo.marked)
	assert.Equal(t, []string{"OK-1"}, w.texts("ExternalId"))
}

func TestAssembleMarkSentFailureAbortsUnit(t *testing.T) {
	orders := []*domain.Order{
		{ID: "first", StoreID: 1, CustomerID: "1", CreatedAt: time.Now()},
		{ID: "second", StoreID: 1, CustomerID: "2", CreatedAt: time.Now()},
	}
	repo := &mockOrderRepo{
		markSentFn: func(ctx context.Context, orderID string) error {
			if orderID == "second" {
				return errors.New("write timeout")
			}
			return nil
		},
	}
	w := &mockWriter{}

	stats, err := newAssembler(repo, &mockCatalog{}, localeConfigRepo("en_US")).
		Assemble(context.Background(), orders, testConfig(false), w)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataAccess)
	assert.Equal(t, 1, stats.Written)
	assert.Equal(t, []string{"first"}, repo.marked)
}

func TestAssembleLocaleResolvedPerOrderStore(t *testing.T) {
	config := &mockConfigRepo{
		forStoreFn: func(ctx context.Context, storeID int64) (*domain.FeedConfig, error) {
			cfg := testConfig(false)
			if storeID == 2 {
				cfg.Locale = "de_DE"
			}
			return cfg, nil
		},
	}
	order := &domain.Order{ID: "o5", StoreID: 2, CustomerID: "1", CreatedAt: time.Now()}
	w := &mockWriter{}

	_, err := newAssembler(&mockOrderRepo{}, &mockCatalog{}, config).
		Assemble(context.Background(), []*domain.Order{order}, testConfig(false), w)
	require.NoError(t, err)

	assert.Equal(t, "de_DE", w.text("Locale"))
}
