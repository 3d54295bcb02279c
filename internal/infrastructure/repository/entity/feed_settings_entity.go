package entity

import (
	"fmt"

	"bv-connector/internal/domain"
)

// FeedSettingsDoc represents the scoped feed configuration in MongoDB, one
// document per store id. Store id 0 holds the platform defaults.
type FeedSettingsDoc struct {
	StoreID            int64  `bson:"storeId"`
	EnableBV           bool   `bson:"enableBv"`
	EnablePurchaseFeed bool   `bson:"enablePurchaseFeed"`
	TriggeringEvent    string `bson:"triggeringEvent"`
	LookbackDays       int    `bson:"lookbackDays"`
	Families           bool   `bson:"families"`
	GenerationScope    string `bson:"generationScope"`
	ClientName         string `bson:"clientName"`
	Locale             string `bson:"locale"`
}

// ToDomain converts the MongoDB document to a validated config snapshot.
func (d *FeedSettingsDoc) ToDomain() (*domain.FeedConfig, error) {
	scope, err := domain.ParseScopeMode(d.GenerationScope)
	if err != nil {
		return nil, err
	}

	trigger := domain.TriggeringEvent(d.TriggeringEvent)
	switch trigger {
	case domain.TriggerPurchase, domain.TriggerShip:
	case "":
		trigger = domain.TriggerPurchase
	default:
		return nil, fmt.Errorf("unknown triggering event %q", d.TriggeringEvent)
	}

	if d.LookbackDays < 0 {
		return nil, fmt.Errorf("negative lookback %d", d.LookbackDays)
	}

	return &domain.FeedConfig{
		IntegrationEnabled: d.EnableBV,
		Enabled:            d.EnablePurchaseFeed,
		TriggeringEvent:    trigger,
		LookbackDays:       d.LookbackDays,
		Families:           d.Families,
		GenerationScope:    scope,
		ClientName:         d.ClientName,
		Locale:             d.Locale,
	}, nil
}
