package models

import "time"

// Order statuses. No transition rule is enforced beyond membership in this
// set; an administrative workflow owns the lifecycle.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

var orderStatuses = map[string]bool{
	OrderStatusPending:    true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
}

// IsValidOrderStatus reports whether s is one of the known order statuses.
func IsValidOrderStatus(s string) bool {
	return orderStatuses[s]
}

// OrderItem is a snapshot of a product at order-placement time. It never
// changes after the order is written, even if the catalog entry does.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Discount  float64 `bson:"discount" json:"discount"`
}

// LineTotal is the price contribution of this item: price x quantity, less
// the item's discount percentage.
func (it OrderItem) LineTotal() float64 {
	return it.Price * float64(it.Quantity) * (1 - it.Discount/100)
}

// Order records a completed cart-to-purchase conversion. Immutable after
// creation except for Status and UpdatedAt.
type Order struct {
	ID        string      `bson:"_id,omitempty" json:"_id"`
	UserID    string      `bson:"userId" json:"userId"`
	Items     []OrderItem `bson:"items" json:"items"`
	Total     float64     `bson:"total" json:"total"`
	Status    string      `bson:"status" json:"status"`
	CreatedAt time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// ComputeTotal sums the line totals of all items.
func (o *Order) ComputeTotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.LineTotal()
	}
	return total
}

// PlaceOrderItem is one submitted line item. Two client generations are in
// the wild: one sends _id/name/quantity, the other productId/title/amount.
// Normalization happens in the order service.
type PlaceOrderItem struct {
	ID        string  `json:"_id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Amount    int     `json:"amount"`
	Discount  float64 `json:"discount"`
}

type PlaceOrderRequest struct {
	Items []PlaceOrderItem `json:"items"`
	Total float64          `json:"total"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
