package domain

import (
	"fmt"
	"time"
)

// PurchaseFeedNamespace is the XML namespace of the Bazaarvoice purchase
// feed schema the connector emits.
const PurchaseFeedNamespace = "http://www.bazaarvoice.com/xs/PRR/PurchaseFeed/5.6"

// ScopeMode is the granularity at which feeds are generated.
type ScopeMode string

const (
	ScopeModeStore      ScopeMode = "store"
	ScopeModeStoreGroup ScopeMode = "store_group"
	ScopeModeWebsite    ScopeMode = "website"
	ScopeModeGlobal     ScopeMode = "global"
)

// ParseScopeMode validates a configured generation scope value.
func ParseScopeMode(s string) (ScopeMode, error) {
	switch ScopeMode(s) {
	case ScopeModeStore, ScopeModeStoreGroup, ScopeModeWebsite, ScopeModeGlobal:
		return ScopeMode(s), nil
	}
	return "", fmt.Errorf("unknown generation scope %q", s)
}

// ScopeUnit is one unit of feed generation: a store, a store group, a
// website, or the whole platform. DefaultStore supplies config and product
// context; StoreIDs narrows order membership (nil means unrestricted).
type ScopeUnit struct {
	Mode         ScopeMode
	ID           int64
	Label        string
	DefaultStore *Store
	StoreIDs     []int64
}

// FileSuffix returns the scope part of the local feed file name. The global
// scope has no suffix.
func (u ScopeUnit) FileSuffix() string {
	switch u.Mode {
	case ScopeModeStore:
		return fmt.Sprintf("-store-%d", u.ID)
	case ScopeModeStoreGroup:
		return fmt.Sprintf("-group-%d", u.ID)
	case ScopeModeWebsite:
		return fmt.Sprintf("-website-%d", u.ID)
	}
	return ""
}

// Interaction is one fully-resolved purchase record. It is built completely
// before any XML is written so a resolution failure can never truncate the
// document.
type Interaction struct {
	TransactionDate time.Time
	EmailAddress    string
	Locale          string
	UserName        string
	UserID          string
	Products        []ProductEntry
}

// ProductEntry is one product line inside an interaction. Price is already
// formatted to exactly two decimal places.
type ProductEntry struct {
	ExternalID string
	Name       string
	ImageURL   string
	Price      string
}
