package handlers

import (
	"log"

	"dollmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CustomerHandler exposes the admin customer views.
type CustomerHandler struct {
	customers *services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customers *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// RegisterAdminRoutes registers the customer management routes.
func (h *CustomerHandler) RegisterAdminRoutes(router fiber.Router) {
	customerRoutes := router.Group("/customers")
	customerRoutes.Get("/", h.HandleListCustomers)
	customerRoutes.Get("/:id", h.HandleCustomerDetails)
}

// HandleListCustomers lists every customer account.
func (h *CustomerHandler) HandleListCustomers(c *fiber.Ctx) error {
	customers, err := h.customers.ListCustomers()
	if err != nil {
		log.Printf("Error listing customers: %v", err)
		return errorJSON(c, "Could not retrieve customers", err)
	}
	return c.JSON(customers)
}

// HandleCustomerDetails returns one customer with order history and
// coupons.
func (h *CustomerHandler) HandleCustomerDetails(c *fiber.Ctx) error {
	details, err := h.customers.Details(c.Params("id"))
	if err != nil {
		log.Printf("Error getting customer %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve customer", err)
	}
	return c.JSON(details)
}
