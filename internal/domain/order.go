package domain

import "time"

// OrderStatus is the order lifecycle status assigned by the storefront's
// order management system. Only completed and closed orders are eligible
// for the purchase feed.
type OrderStatus string

const (
	OrderStatusComplete OrderStatus = "complete"
	OrderStatusClosed   OrderStatus = "closed"
)

// EligibleOrderStatuses lists the statuses that qualify an order for export.
var EligibleOrderStatuses = []OrderStatus{OrderStatusComplete, OrderStatusClosed}

// ProductType distinguishes purchasable line items from configurable
// family parents, which carry no price of their own.
type ProductType string

const (
	ProductTypeSimple       ProductType = "simple"
	ProductTypeConfigurable ProductType = "configurable"
)

// Order is a completed storefront order as read from the order store.
// The connector only reads order fields and writes SentInFeed.
type Order struct {
	ID                string      `json:"id" bson:"id"`
	IncrementID       string      `json:"increment_id" bson:"increment_id"`
	StoreID           int64       `json:"store_id" bson:"store_id"`
	Status            OrderStatus `json:"status" bson:"status"`
	CustomerID        string      `json:"customer_id" bson:"customer_id"`
	CustomerEmail     string      `json:"customer_email" bson:"customer_email"`
	CustomerFirstname string      `json:"customer_firstname" bson:"customer_firstname"`
	CreatedAt         time.Time   `json:"created_at" bson:"created_at"`
	Items             []LineItem  `json:"items" bson:"items"`
	Shipments         []Shipment  `json:"shipments" bson:"shipments"`

	// SentInFeed is the idempotency marker. nil means the order has never
	// been considered; false means it was explicitly reset for a resend.
	SentInFeed *bool `json:"sent_in_feed" bson:"sent_in_feed"`
}

// LineItem is one purchased row on an order. A variant purchased through a
// configurable product carries the parent row's item id in ParentItemID.
type LineItem struct {
	ID            string      `json:"id" bson:"id"`
	ProductID     string      `json:"product_id" bson:"product_id"`
	ProductType   ProductType `json:"product_type" bson:"product_type"`
	OriginalPrice float64     `json:"original_price" bson:"original_price"`
	ParentItemID  string      `json:"parent_item_id" bson:"parent_item_id"`
	Visible       bool        `json:"visible" bson:"visible"`
}

// Shipment is a shipment linked to an order; only its creation time matters
// for ship-triggered feeds.
type Shipment struct {
	ID        string    `json:"id" bson:"id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ParentOf returns the line item referenced by item's ParentItemID, or nil
// when the item has no parent on this order.
func (o *Order) ParentOf(item LineItem) *LineItem {
	if item.ParentItemID == "" {
		return nil
	}
	for i := range o.Items {
		if o.Items[i].ID == item.ParentItemID {
			return &o.Items[i]
		}
	}
	return nil
}

// VisibleItems returns only the directly-visible line items, excluding
// child variant rows.
func (o *Order) VisibleItems() []LineItem {
	items := make([]LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.Visible {
			items = append(items, item)
		}
	}
	return items
}

// LatestShipmentAt returns the creation time of the most recent shipment,
// or the zero time when the order has no shipments.
func (o *Order) LatestShipmentAt() time.Time {
	var latest time.Time
	for _, s := range o.Shipments {
		if s.CreatedAt.After(latest) {
			latest = s.CreatedAt
		}
	}
	return latest
}
