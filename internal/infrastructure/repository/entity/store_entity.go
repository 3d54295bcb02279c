package entity

import "bv-connector/internal/domain"

// StoreDoc represents a store view in MongoDB. Group and website ids are
// denormalized onto the store document.
type StoreDoc struct {
	StoreID      int64  `bson:"storeId"`
	Code         string `bson:"code"`
	Name         string `bson:"name"`
	GroupID      int64  `bson:"groupId"`
	WebsiteID    int64  `bson:"websiteId"`
	BaseMediaURL string `bson:"baseMediaUrl"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *StoreDoc) ToDomain() *domain.Store {
	return &domain.Store{
		ID:           d.StoreID,
		Code:         d.Code,
		Name:         d.Name,
		GroupID:      d.GroupID,
		WebsiteID:    d.WebsiteID,
		BaseMediaURL: d.BaseMediaURL,
	}
}

// StoreGroupDoc represents a store group in MongoDB.
type StoreGroupDoc struct {
	GroupID        int64  `bson:"groupId"`
	Name           string `bson:"name"`
	DefaultStoreID int64  `bson:"defaultStoreId"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *StoreGroupDoc) ToDomain() *domain.StoreGroup {
	return &domain.StoreGroup{
		ID:             d.GroupID,
		Name:           d.Name,
		DefaultStoreID: d.DefaultStoreID,
	}
}

// WebsiteDoc represents a website in MongoDB.
type WebsiteDoc struct {
	WebsiteID      int64  `bson:"websiteId"`
	Name           string `bson:"name"`
	DefaultStoreID int64  `bson:"defaultStoreId"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *WebsiteDoc) ToDomain() *domain.Website {
	return &domain.Website{
		ID:             d.WebsiteID,
		Name:           d.Name,
		DefaultStoreID: d.DefaultStoreID,
	}
}
