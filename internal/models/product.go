package models

// Product represents a product in the catalog.
//
// BulkDiscount is the per-product rate shown to admins; the order-level
// bulk discount applied at checkout uses the configured flat rate.
type Product struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Category     string  `json:"category" validate:"required,max=100"`
	Price        float64 `json:"price" validate:"gte=0"`
	Stock        int     `json:"stock" validate:"gte=0"`
	BulkDiscount float64 `json:"bulk_discount" validate:"gte=0,lte=1"`
}
