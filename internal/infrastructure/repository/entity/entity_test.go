package entity

import (
	"testing"
	"time"

	"bv-connector/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderDocToDomain(t *testing.T) {
	sent := true
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	doc := &OrderDoc{
		ID:            primitive.NewObjectID(),
		IncrementID:   "100000042",
		StoreID:       2,
		Status:        "complete",
		CustomerEmail: "jane@example.com",
		CreatedAt:     created,
		Items: []OrderItemDoc{
			{ItemID: "parent", ProductID: "conf", ProductType: "configurable", OriginalPrice: 45, Visible: true},
			{ItemID: "child", ProductID: "variant", ProductType: "simple", ParentItemID: "parent"},
		},
		Shipments:  []ShipmentDoc{{ShipmentID: "s1", CreatedAt: created.Add(time.Hour)}},
		SentInFeed: &sent,
	}

	order := doc.ToDomain()

	assert.Equal(t, doc.ID.Hex(), order.ID)
	assert.Equal(t, domain.OrderStatusComplete, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, domain.ProductTypeConfigurable, order.Items[0].ProductType)

	parent := order.ParentOf(order.Items[1])
	require.NotNil(t, parent)
	assert.Equal(t, "parent", parent.ID)
	assert.Nil(t, order.ParentOf(order.Items[0]))

	assert.Equal(t, created.Add(time.Hour), order.LatestShipmentAt())
	require.NotNil(t, order.SentInFeed)
	assert.True(t, *order.SentInFeed)
}

func TestProductDocStoreOverride(t *testing.T) {
	doc := &ProductDoc{
		ProductID:  "p1",
		ExternalID: "SKU-1",
		Name:       "Mug",
		Image:      "/m/u/mug.jpg",
		StoreOverrides: []ProductStoreData{
			{StoreID: 2, Name: "Tasse"},
			{StoreID: 3, Image: "/m/u/mug_fr.jpg"},
		},
	}

	name, image := doc.ForStore(1)
	assert.Equal(t, "Mug", name)
	assert.Equal(t, "/m/u/mug.jpg", image)

	name, image = doc.ForStore(2)
	assert.Equal(t, "Tasse", name)
	assert.Equal(t, "/m/u/mug.jpg", image)

	name, image = doc.ForStore(3)
	assert.Equal(t, "Mug", name)
	assert.Equal(t, "/m/u/mug_fr.jpg", image)
}

func TestFeedSettingsToDomain(t *testing.T) {
	doc := &FeedSettingsDoc{
		StoreID:            1,
		EnableBV:           true,
		EnablePurchaseFeed: true,
		TriggeringEvent:    "ship",
		LookbackDays:       14,
		Families:           true,
		GenerationScope:    "website",
		ClientName:         "acme",
		Locale:             "en_US",
	}

	cfg, err := doc.ToDomain()
	require.NoError(t, err)
	assert.True(t, cfg.FeedActive())
	assert.Equal(t, domain.TriggerShip, cfg.TriggeringEvent)
	assert.Equal(t, domain.ScopeModeWebsite, cfg.GenerationScope)
	assert.Equal(t, 14, cfg.LookbackDays)
}

func TestFeedSettingsDefaultsTriggerToPurchase(t *testing.T) {
	doc := &FeedSettingsDoc{GenerationScope: "global"}
	cfg, err := doc.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, domain.TriggerPurchase, cfg.TriggeringEvent)
}

func TestFeedSettingsRejectsBadValues(t *testing.T) {
	_, err := (&FeedSettingsDoc{GenerationScope: "galaxy"}).ToDomain()
	assert.Error(t, err)

	_, err = (&FeedSettingsDoc{GenerationScope: "store", TriggeringEvent: "return"}).ToDomain()
	assert.Error(t, err)

	_, err = (&FeedSettingsDoc{GenerationScope: "store", LookbackDays: -1}).ToDomain()
	assert.Error(t, err)
}
