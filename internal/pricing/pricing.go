// Package pricing holds the pure discount arithmetic used at checkout.
//
// Bulk and coupon discounts stack sequentially: the bulk discount reduces
// the subtotal first, then a coupon percentage applies to the already
// reduced amount. They are never both computed from the raw subtotal.
package pricing

// BulkDiscount computes the retail bulk discount for an order.
// It applies only when the customer is retail-flagged and the total
// ordered quantity reaches the threshold.
func BulkDiscount(isRetail bool, totalQuantity int, subtotal float64, rate float64, threshold int) (discount float64, applies bool) {
	if !isRetail || totalQuantity < threshold {
		return 0, false
	}
	return subtotal * rate, true
}

// CouponDiscount computes the discount a percentage coupon takes off the
// given amount and the resulting total.
func CouponDiscount(amount, percent float64) (discount, newAmount float64) {
	discount = amount * (percent / 100)
	return discount, amount - discount
}
