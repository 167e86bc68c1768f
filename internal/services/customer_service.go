package services

import (
	"dollmart/internal/models"
	"dollmart/internal/repositories"
)

// CustomerDetails is the admin view of one customer: the account plus
// its order history and coupons.
type CustomerDetails struct {
	User    models.User     `json:"user"`
	Orders  []models.Order  `json:"orders"`
	Coupons []models.Coupon `json:"coupons"`
}

// CustomerService exposes the admin-side customer views.
type CustomerService struct {
	store repositories.Store
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(store repositories.Store) *CustomerService {
	return &CustomerService{store: store}
}

// ListCustomers returns every customer account, newest first.
func (s *CustomerService) ListCustomers() ([]models.User, error) {
	return s.store.Users().ListCustomers()
}

// Details returns one customer with order history and coupons.
func (s *CustomerService) Details(userID string) (*CustomerDetails, error) {
	user, err := s.store.Users().GetByID(userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.store.Orders().ListByUser(userID)
	if err != nil {
		return nil, err
	}
	coupons, err := s.store.Coupons().ListByUser(userID)
	if err != nil {
		return nil, err
	}

	return &CustomerDetails{
		User:    *user,
		Orders:  orders,
		Coupons: coupons,
	}, nil
}
