package models

// Coupon is a single-use percentage discount tied to one user.
//
// Code carries a unique index; the ledger retries code generation on a
// collision rather than trusting the hash alone.
type Coupon struct {
	ID                 string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID             string  `json:"user_id" gorm:"index;type:varchar(36)" validate:"required"`
	Code               string  `json:"code" gorm:"uniqueIndex;type:varchar(40)"`
	DiscountPercentage float64 `json:"discount_percentage" validate:"gt=0,lte=100"`
	Used               bool    `json:"used"`
}
