package models

// CartItem is one line of a cart. Price is snapshotted when the item is
// first added and does not re-sync with later catalog changes.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart holds the not-yet-ordered items of one customer session. It lives
// in memory only and is destroyed on successful order placement.
type Cart struct {
	Items map[string]*CartItem `json:"items"`
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{Items: make(map[string]*CartItem)}
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Subtotal returns the sum of price x quantity over all lines.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// TotalQuantity returns the total number of units across all lines.
func (c *Cart) TotalQuantity() int {
	var qty int
	for _, item := range c.Items {
		qty += item.Quantity
	}
	return qty
}

// Clear removes every item from the cart.
func (c *Cart) Clear() {
	c.Items = make(map[string]*CartItem)
}
