package repositories

import (
	"errors"

	"dollmart/internal/models"
)

// Store-level sentinel errors. Callers match them with errors.Is.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateCode     = errors.New("coupon code already exists")
	ErrProductReferenced = errors.New("product is referenced by existing orders")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	ListCustomers() ([]models.User, error)
	// IncrementOrdersCount adds one to the user's order counter and
	// returns the new value.
	IncrementOrdersCount(id string) (int, error)
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByCategory(category string) ([]models.Product, error)
	SearchByName(term string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	// Delete removes a product unless any order line references it.
	Delete(id string) error
	// DecrementStock subtracts qty from the product's stock. It fails
	// with ErrInsufficientStock instead of ever driving stock negative.
	DecrementStock(id string, qty int) error
}

// OrderRepository defines the interface for order data access. Orders
// are created together with their items.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	ListByUser(userID string) ([]models.Order, error)
	ListAll() ([]models.Order, error)
	ListUndelivered() ([]models.Order, error)
	UpdateStatus(id string, status models.OrderStatus) error
}

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	Create(coupon *models.Coupon) error
	GetByID(id string) (*models.Coupon, error)
	ListByUser(userID string) ([]models.Coupon, error)
	// MarkUsed flips the used flag of an unused coupon owned by userID.
	// It reports false when no such coupon exists, so a second redeem of
	// the same coupon can never succeed.
	MarkUsed(id, userID string) (bool, error)
}

// Store bundles the repositories behind a single handle and provides the
// transaction scope multi-step workflows run in. Inside Transaction the
// callback receives a Store bound to the transaction; every write through
// it either commits as a whole or rolls back as a whole.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Orders() OrderRepository
	Coupons() CouponRepository
	Transaction(fn func(tx Store) error) error
}
