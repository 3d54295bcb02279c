package domain

// AdminStoreID is the synthetic base store used for global-scope config and
// product resolution.
const AdminStoreID int64 = 0

// Store is a single store view. Group and website ids are denormalized onto
// the store so scope membership never needs a join.
type Store struct {
	ID           int64  `json:"id" bson:"id"`
	Code         string `json:"code" bson:"code"`
	Name         string `json:"name" bson:"name"`
	GroupID      int64  `json:"group_id" bson:"group_id"`
	WebsiteID    int64  `json:"website_id" bson:"website_id"`
	BaseMediaURL string `json:"base_media_url" bson:"base_media_url"`
}

// StoreGroup is a group of stores sharing a catalog. Its default store
// supplies config and product context when feeds are generated per group.
type StoreGroup struct {
	ID             int64  `json:"id" bson:"id"`
	Name           string `json:"name" bson:"name"`
	DefaultStoreID int64  `json:"default_store_id" bson:"default_store_id"`
}

// Website is the top storefront grouping above store groups.
type Website struct {
	ID             int64  `json:"id" bson:"id"`
	Name           string `json:"name" bson:"name"`
	DefaultStoreID int64  `json:"default_store_id" bson:"default_store_id"`
}

// NoImageSentinel is the catalog's placeholder value for a product without
// an assigned image.
const NoImageSentinel = "no_selection"

// Product is catalog data resolved in the context of a specific store.
// Image holds the raw catalog path (possibly NoImageSentinel); ImageURL is
// the absolute URL, empty when no real image exists.
type Product struct {
	ID         string `json:"id" bson:"id"`
	ExternalID string `json:"external_id" bson:"external_id"`
	Name       string `json:"name" bson:"name"`
	Image      string `json:"image" bson:"image"`
	ImageURL   string `json:"image_url" bson:"image_url"`
}

// HasImage reports whether the product carries a real image rather than the
// no-selection placeholder.
func (p *Product) HasImage() bool {
	return p.Image != "" && p.Image != NoImageSentinel
}
