package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
// Any valid status may be assigned at any time; transitions are not enforced.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status in lifecycle order
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order is a sale to a client. It owns its line items.
type Order struct {
	ID          int64           `json:"id" db:"id"`
	ClientID    int64           `json:"client_id" db:"client_id"`
	Status      OrderStatus     `json:"status" db:"status"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	Items       []OrderItem     `json:"items"`
	Client      *Client         `json:"client,omitempty"`
}

// CalculateTotal sums the subtotal of every line item
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// OrderItem is one product line of an order. UnitPrice is the product price
// at the moment the order was placed.
type OrderItem struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"order_id" db:"order_id"`
	ProductID int64           `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// Subtotal returns unit price times quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItemInput is a requested product line
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// OrderInput describes an order to be placed
type OrderInput struct {
	ClientID int64
	Status   OrderStatus
	Items    []OrderItemInput
}

// OrderPatch carries the fields of a partial order update
type OrderPatch struct {
	Status *OrderStatus
}

// Apply copies every supplied field onto the order
func (p OrderPatch) Apply(order *Order) {
	if p.Status != nil {
		order.Status = *p.Status
	}
}

// OrderFilter narrows order listings. Section matches orders having at least
// one item whose product belongs to that section.
type OrderFilter struct {
	ClientID      *int64
	Status        *OrderStatus
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Section       string
}
