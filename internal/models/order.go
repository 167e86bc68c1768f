package models

import "time"

// OrderStatus is the lifecycle state of an order. Transitions only move
// forward: Processing -> Out for Delivery -> Delivered.
type OrderStatus string

const (
	StatusProcessing     OrderStatus = "Processing"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
)

// rank orders the statuses for monotonicity checks.
func (s OrderStatus) rank() int {
	switch s {
	case StatusProcessing:
		return 0
	case StatusOutForDelivery:
		return 1
	case StatusDelivered:
		return 2
	}
	return -1
}

// Before reports whether s precedes other in the lifecycle.
func (s OrderStatus) Before(other OrderStatus) bool {
	return s.rank() < other.rank()
}

// OrderItem represents a single line within an order. Price is the unit
// price at the time of purchase and never re-syncs with the catalog.
type OrderItem struct {
	OrderID   string  `json:"order_id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"primaryKey;type:varchar(36)"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order represents a placed customer order.
type Order struct {
	ID                string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string      `json:"user_id" gorm:"index;type:varchar(36)"`
	OrderDate         time.Time   `json:"order_date"`
	Status            OrderStatus `json:"status" gorm:"type:varchar(20)"`
	TotalAmount       float64     `json:"total_amount"`
	EstimatedDelivery time.Time   `json:"estimated_delivery"`
	Items             []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}
