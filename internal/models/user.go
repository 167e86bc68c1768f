package models

import "time"

// Role distinguishes the two account kinds. Admin-only operations are
// gated on an explicit role check rather than subtyping.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User represents an account of the store.
type User struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username         string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	PasswordHash     string    `json:"-" gorm:"column:password_hash;type:varchar(255)"`
	Role             Role      `json:"role" gorm:"type:varchar(16)" validate:"required,oneof=admin customer"`
	IsRetail         bool      `json:"is_retail"`
	OrdersCount      int       `json:"orders_count" validate:"gte=0"`
	RegistrationDate time.Time `json:"registration_date"`
}

// IsAdmin reports whether the user may perform administrative operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
