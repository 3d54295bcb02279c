package domain

// TriggeringEvent selects which timestamp becomes an interaction's
// transaction date.
type TriggeringEvent string

const (
	TriggerPurchase TriggeringEvent = "purchase"
	TriggerShip     TriggeringEvent = "ship"
)

// FeedConfig is the immutable per-scope configuration snapshot consumed by
// the pipeline. It is resolved once per scope unit and passed explicitly to
// each component instead of being looked up ad hoc.
type FeedConfig struct {
	// IntegrationEnabled is the master Bazaarvoice switch (general/enable_bv).
	IntegrationEnabled bool
	// Enabled switches the purchase feed itself (feeds/enable_purchase_feed).
	Enabled bool

	TriggeringEvent TriggeringEvent
	LookbackDays    int
	Families        bool
	GenerationScope ScopeMode
	ClientName      string
	Locale          string
}

// FeedActive reports whether both the integration and the purchase feed are
// switched on for this scope.
func (c *FeedConfig) FeedActive() bool {
	return c.IntegrationEnabled && c.Enabled
}
