package entity

import (
	"time"

	"bv-connector/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderDoc represents an order in MongoDB.
type OrderDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	IncrementID       string             `bson:"incrementId"`
	StoreID           int64              `bson:"storeId"`
	Status            string             `bson:"status"`
	CustomerID        string             `bson:"customerId,omitempty"`
	CustomerEmail     string             `bson:"customerEmail"`
	CustomerFirstname string             `bson:"customerFirstname"`
	CreatedAt         time.Time          `bson:"createdAt"`
	Items             []OrderItemDoc     `bson:"items"`
	Shipments         []ShipmentDoc      `bson:"shipments,omitempty"`
	SentInFeed        *bool              `bson:"sentInBvPostpurchaseFeed,omitempty"`
	UpdatedAt         time.Time          `bson:"updatedAt,omitempty"`
}

// OrderItemDoc represents one order line item in MongoDB.
type OrderItemDoc struct {
	ItemID        string  `bson:"itemId"`
	ProductID     string  `bson:"productId"`
	ProductType   string  `bson:"productType"`
	OriginalPrice float64 `bson:"originalPrice"`
	ParentItemID  string  `bson:"parentItemId,omitempty"`
	Visible       bool    `bson:"visible"`
}

// ShipmentDoc represents a shipment linked to an order in MongoDB.
type ShipmentDoc struct {
	ShipmentID string    `bson:"shipmentId"`
	CreatedAt  time.Time `bson:"createdAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *OrderDoc) ToDomain() *domain.Order {
	items := make([]domain.LineItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, domain.LineItem{
			ID:            item.ItemID,
			ProductID:     item.ProductID,
			ProductType:   domain.ProductType(item.ProductType),
			OriginalPrice: item.OriginalPrice,
			ParentItemID:  item.ParentItemID,
			Visible:       item.Visible,
		})
	}

	shipments := make([]domain.Shipment, 0, len(d.Shipments))
	for _, s := range d.Shipments {
		shipments = append(shipments, domain.Shipment{
			ID:        s.ShipmentID,
			CreatedAt: s.CreatedAt,
		})
	}

	return &domain.Order{
		ID:                d.ID.Hex(),
		IncrementID:       d.IncrementID,
		StoreID:           d.StoreID,
		Status:            domain.OrderStatus(d.Status),
		CustomerID:        d.CustomerID,
		CustomerEmail:     d.CustomerEmail,
		CustomerFirstname: d.CustomerFirstname,
		CreatedAt:         d.CreatedAt,
		Items:             items,
		Shipments:         shipments,
		SentInFeed:        d.SentInFeed,
	}
}
