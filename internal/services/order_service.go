package services

import (
	"fmt"
	"log"
	"time"

	"dollmart/internal/config"
	"dollmart/internal/models"
	"dollmart/internal/pricing"
	"dollmart/internal/repositories"
)

// EventPublisher publishes order lifecycle events to a message broker.
// A nil publisher disables publishing.
type EventPublisher interface {
	PublishOrderEvent(routingKey string, payload map[string]interface{}) error
}

// OrderQuote is the checkout breakdown shown to the customer before
// confirmation. Computing a quote has no side effects.
type OrderQuote struct {
	Subtotal      float64 `json:"subtotal"`
	TotalQuantity int     `json:"total_quantity"`
	BulkApplied   bool    `json:"bulk_applied"`
	BulkDiscount  float64 `json:"bulk_discount"`
	Total         float64 `json:"total"`
}

// OrderReceipt is returned after a successful placement.
type OrderReceipt struct {
	OrderID             string             `json:"order_id"`
	Status              models.OrderStatus `json:"status"`
	Subtotal            float64            `json:"subtotal"`
	BulkApplied         bool               `json:"bulk_applied"`
	BulkDiscount        float64            `json:"bulk_discount"`
	CouponApplied       bool               `json:"coupon_applied"`
	CouponCode          string             `json:"coupon_code,omitempty"`
	CouponDiscount      float64            `json:"coupon_discount"`
	TotalAmount         float64            `json:"total_amount"`
	OutForDeliveryAfter time.Time          `json:"out_for_delivery_after"`
	EstimatedDelivery   time.Time          `json:"estimated_delivery"`
	LoyaltyCoupon       *models.Coupon     `json:"loyalty_coupon,omitempty"`
}

// OrderLine is an order item joined with its product name for display.
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

// OrderService handles order placement and the time-driven order status
// lifecycle.
type OrderService struct {
	store     repositories.Store
	coupons   *CouponService
	cfg       *config.Config
	publisher EventPublisher
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store repositories.Store, coupons *CouponService, cfg *config.Config, publisher EventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		coupons:   coupons,
		cfg:       cfg,
		publisher: publisher,
		now:       time.Now,
	}
}

// Preview computes the pre-coupon checkout breakdown for a cart without
// touching any state.
func (s *OrderService) Preview(user *models.User, cart *models.Cart) (*OrderQuote, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	subtotal := cart.Subtotal()
	qty := cart.TotalQuantity()
	bulk, applied := pricing.BulkDiscount(user.IsRetail, qty, subtotal,
		s.cfg.BulkDiscountRate, s.cfg.BulkQuantityThreshold)

	return &OrderQuote{
		Subtotal:      subtotal,
		TotalQuantity: qty,
		BulkApplied:   applied,
		BulkDiscount:  bulk,
		Total:         subtotal - bulk,
	}, nil
}

// Place turns the cart into a persisted order. couponID is optional; an
// invalid coupon does not block the order, it is simply reported as not
// applied on the receipt.
//
// Everything with a side effect runs in one store transaction: the
// coupon redemption, the guarded stock decrements (any short line aborts
// the whole order), the order and line item inserts, the user's order
// counter and, on every LoyaltyOrderInterval-th order, the loyalty
// coupon mint. The cart is cleared only after the transaction commits.
func (s *OrderService) Place(user *models.User, cart *models.Cart, couponID string) (*OrderReceipt, error) {
	quote, err := s.Preview(user, cart)
	if err != nil {
		return nil, err
	}

	now := s.now()
	receipt := &OrderReceipt{
		Status:              models.StatusProcessing,
		Subtotal:            quote.Subtotal,
		BulkApplied:         quote.BulkApplied,
		BulkDiscount:        quote.BulkDiscount,
		OutForDeliveryAfter: now.Add(s.cfg.ProcessingTime),
		EstimatedDelivery:   now.Add(s.cfg.ProcessingTime + s.cfg.DeliveryTime),
	}

	err = s.store.Transaction(func(tx repositories.Store) error {
		total := quote.Total

		if couponID != "" {
			res, err := s.coupons.RedeemIn(tx, user.ID, couponID, total)
			if err != nil {
				return err
			}
			receipt.CouponApplied = res.Applied
			receipt.CouponCode = res.Code
			receipt.CouponDiscount = res.Discount
			total = res.NewAmount
		}

		order := &models.Order{
			UserID:            user.ID,
			OrderDate:         now,
			Status:            models.StatusProcessing,
			TotalAmount:       total,
			EstimatedDelivery: receipt.EstimatedDelivery,
		}
		for productID, item := range cart.Items {
			if err := tx.Products().DecrementStock(productID, item.Quantity); err != nil {
				return err
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: productID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
		if err := tx.Orders().Create(order); err != nil {
			return err
		}
		receipt.OrderID = order.ID
		receipt.TotalAmount = total

		count, err := tx.Users().IncrementOrdersCount(user.ID)
		if err != nil {
			return err
		}
		if s.cfg.LoyaltyOrderInterval > 0 && count%s.cfg.LoyaltyOrderInterval == 0 {
			coupon, err := s.coupons.IssueIn(tx, user.ID, s.cfg.LoyaltyDiscountPercent, PrefixLoyalty)
			if err != nil {
				return err
			}
			receipt.LoyaltyCoupon = coupon
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	cart.Clear()
	user.OrdersCount++

	s.publish("order.placed", map[string]interface{}{
		"order_id": receipt.OrderID,
		"user_id":  user.ID,
		"status":   receipt.Status,
		"total":    receipt.TotalAmount,
	})

	return receipt, nil
}

// ListForUser returns the user's orders, newest first, after advancing
// every stale order status.
func (s *OrderService) ListForUser(userID string) ([]models.Order, error) {
	if err := s.AdvanceStatuses(); err != nil {
		return nil, err
	}
	return s.store.Orders().ListByUser(userID)
}

// ListAll returns every order, newest first, after advancing every stale
// order status.
func (s *OrderService) ListAll() ([]models.Order, error) {
	if err := s.AdvanceStatuses(); err != nil {
		return nil, err
	}
	return s.store.Orders().ListAll()
}

// Details returns an order with its lines joined to product names.
func (s *OrderService) Details(orderID string) (*models.Order, []OrderLine, error) {
	order, err := s.store.Orders().GetByID(orderID)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		name := item.ProductID
		if product, err := s.store.Products().GetByID(item.ProductID); err == nil {
			name = product.Name
		}
		lines = append(lines, OrderLine{
			ProductID: item.ProductID,
			Name:      name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Price * float64(item.Quantity),
		})
	}
	return order, lines, nil
}

// StatusAt computes the lifecycle state an order created at orderDate
// should be in at the given instant.
func (s *OrderService) StatusAt(orderDate, now time.Time) models.OrderStatus {
	elapsed := now.Sub(orderDate)
	switch {
	case elapsed >= s.cfg.ProcessingTime+s.cfg.DeliveryTime:
		return models.StatusDelivered
	case elapsed >= s.cfg.ProcessingTime:
		return models.StatusOutForDelivery
	default:
		return models.StatusProcessing
	}
}

// AdvanceStatuses sweeps every non-delivered order and persists any
// status transition due by elapsed time. Statuses only move forward, so
// re-running the sweep is a no-op. There is no background scheduler; the
// sweep runs before every order listing.
func (s *OrderService) AdvanceStatuses() error {
	orders, err := s.store.Orders().ListUndelivered()
	if err != nil {
		return err
	}

	now := s.now()
	for _, order := range orders {
		want := s.StatusAt(order.OrderDate, now)
		if order.Status.Before(want) {
			if err := s.store.Orders().UpdateStatus(order.ID, want); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *OrderService) publish(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(routingKey, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
