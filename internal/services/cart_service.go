package services

import (
	"fmt"
	"sync"

	"dollmart/internal/models"
	"dollmart/internal/repositories"
)

// CartService keeps one in-memory cart per user session. Carts are never
// persisted; they vanish on logout or process exit and are cleared after
// a successful order.
type CartService struct {
	mu       sync.RWMutex
	carts    map[string]*models.Cart
	products repositories.ProductRepository
}

// NewCartService creates a new CartService backed by the given product
// repository for stock checks.
func NewCartService(products repositories.ProductRepository) *CartService {
	return &CartService{
		carts:    make(map[string]*models.Cart),
		products: products,
	}
}

// Get returns the user's cart, creating an empty one on first use.
func (s *CartService) Get(userID string) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLocked(userID)
}

func (s *CartService) cartLocked(userID string) *models.Cart {
	cart, ok := s.carts[userID]
	if !ok {
		cart = models.NewCart()
		s.carts[userID] = cart
	}
	return cart
}

// Add puts quantity units of a product into the user's cart. Adding a
// product already present accumulates its quantity. The accumulated
// quantity is checked against live stock; the price is snapshotted on
// first add.
func (s *CartService) Add(userID, productID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("add to cart: %w", ErrInvalidQuantity)
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(userID)
	requested := quantity
	if existing, ok := cart.Items[productID]; ok {
		requested += existing.Quantity
	}
	if product.Stock < requested {
		return nil, fmt.Errorf("only %d units of %s available: %w",
			product.Stock, product.Name, repositories.ErrInsufficientStock)
	}

	item, ok := cart.Items[productID]
	if ok {
		item.Quantity = requested
	} else {
		item = &models.CartItem{
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		}
		cart.Items[productID] = item
	}

	copied := *item
	return &copied, nil
}

// UpdateQuantity replaces the quantity of a product already in the cart.
func (s *CartService) UpdateQuantity(userID, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("update cart: %w", ErrInvalidQuantity)
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return err
	}
	if product.Stock < quantity {
		return fmt.Errorf("only %d units of %s available: %w",
			product.Stock, product.Name, repositories.ErrInsufficientStock)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(userID)
	item, ok := cart.Items[productID]
	if !ok {
		return fmt.Errorf("product %s: %w", productID, ErrNotInCart)
	}
	item.Quantity = quantity
	return nil
}

// Remove deletes a product line from the cart.
func (s *CartService) Remove(userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(userID)
	if _, ok := cart.Items[productID]; !ok {
		return fmt.Errorf("product %s: %w", productID, ErrNotInCart)
	}
	delete(cart.Items, productID)
	return nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartLocked(userID).Clear()
}
