package handlers

import (
	"log"

	"dollmart/internal/middleware"
	"dollmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orders *services.OrderService
	auth   *services.AuthService
	carts  *services.CartService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, auth *services.AuthService, carts *services.CartService) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		auth:   auth,
		carts:  carts,
	}
}

// RegisterRoutes registers the customer-facing order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListMyOrders)
	orderRoutes.Post("/preview", h.HandlePreviewOrder)
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderDetails)
}

// RegisterAdminRoutes registers the admin order views.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListAllOrders)
}

// HandlePreviewOrder computes the checkout breakdown for the current
// cart without placing anything. The client shows it for confirmation;
// declining simply means never calling the place endpoint, which leaves
// cart and store untouched.
func (h *OrderHandler) HandlePreviewOrder(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(middleware.UserID(c))
	if err != nil {
		return errorJSON(c, "Could not load user", err)
	}

	quote, err := h.orders.Preview(user, h.carts.Get(user.ID))
	if err != nil {
		return errorJSON(c, "Could not preview order", err)
	}
	return c.JSON(quote)
}

// PlaceOrderRequest represents the request body for order placement.
type PlaceOrderRequest struct {
	CouponID string `json:"coupon_id"`
}

// HandlePlaceOrder places an order from the current cart, optionally
// redeeming one coupon.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req PlaceOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
	}

	user, err := h.auth.GetUser(middleware.UserID(c))
	if err != nil {
		return errorJSON(c, "Could not load user", err)
	}

	receipt, err := h.orders.Place(user, h.carts.Get(user.ID), req.CouponID)
	if err != nil {
		log.Printf("Error placing order for user %s: %v", user.ID, err)
		return errorJSON(c, "Could not place order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(receipt)
}

// HandleListMyOrders returns the caller's order history. Stale statuses
// are advanced before the listing is built.
func (h *OrderHandler) HandleListMyOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListForUser(middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return errorJSON(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleListAllOrders returns every order in the store (admin view).
func (h *OrderHandler) HandleListAllOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListAll()
	if err != nil {
		log.Printf("Error listing all orders: %v", err)
		return errorJSON(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderDetails returns one order with its lines. Customers can
// only see their own orders; admins can see any.
func (h *OrderHandler) HandleGetOrderDetails(c *fiber.Ctx) error {
	order, lines, err := h.orders.Details(c.Params("id"))
	if err != nil {
		log.Printf("Error getting order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve order", err)
	}

	if order.UserID != middleware.UserID(c) && !middleware.IsAdmin(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	}

	return c.JSON(fiber.Map{
		"order": order,
		"items": lines,
	})
}
