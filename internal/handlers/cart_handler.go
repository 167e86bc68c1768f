package handlers

import (
	"log"

	"dollmart/internal/middleware"
	"dollmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the session cart.
type CartHandler struct {
	carts    *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:productID", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:productID", h.HandleRemoveItem)
}

// HandleGetCart returns the cart with its running totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart := h.carts.Get(middleware.UserID(c))
	return c.JSON(fiber.Map{
		"items":          cart.Items,
		"subtotal":       cart.Subtotal(),
		"total_quantity": cart.TotalQuantity(),
	})
}

// AddItemRequest represents the request body for adding a cart line.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// HandleAddItem adds quantity units of a product to the cart. A product
// already in the cart accumulates quantity.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	item, err := h.carts.Add(middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding product %s to cart: %v", req.ProductID, err)
		return errorJSON(c, "Could not add product to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateItemRequest represents the request body for a quantity change.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// HandleUpdateItem replaces the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	if err := h.carts.UpdateQuantity(middleware.UserID(c), c.Params("productID"), req.Quantity); err != nil {
		log.Printf("Error updating cart line %s: %v", c.Params("productID"), err)
		return errorJSON(c, "Could not update cart", err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart updated",
	})
}

// HandleRemoveItem deletes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.carts.Remove(middleware.UserID(c), c.Params("productID")); err != nil {
		log.Printf("Error removing cart line %s: %v", c.Params("productID"), err)
		return errorJSON(c, "Could not remove product from cart", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product removed from cart",
	})
}
