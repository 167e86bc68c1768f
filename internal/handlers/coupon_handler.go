package handlers

import (
	"log"

	"dollmart/internal/middleware"
	"dollmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CouponHandler handles HTTP requests for coupons.
type CouponHandler struct {
	coupons  *services.CouponService
	validate *validator.Validate
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(coupons *services.CouponService) *CouponHandler {
	return &CouponHandler{
		coupons:  coupons,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the customer-facing coupon routes.
func (h *CouponHandler) RegisterRoutes(router fiber.Router) {
	couponRoutes := router.Group("/coupons")
	couponRoutes.Get("/", h.HandleListMyCoupons)
	couponRoutes.Post("/redeem", h.HandleRedeemCoupon)
}

// RegisterAdminRoutes registers admin-initiated coupon issuance.
func (h *CouponHandler) RegisterAdminRoutes(router fiber.Router) {
	couponRoutes := router.Group("/coupons")
	couponRoutes.Post("/", h.HandleIssueCoupon)
}

// HandleListMyCoupons lists the caller's coupons, used and unused.
func (h *CouponHandler) HandleListMyCoupons(c *fiber.Ctx) error {
	coupons, err := h.coupons.ListForUser(middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing coupons: %v", err)
		return errorJSON(c, "Could not retrieve coupons", err)
	}
	return c.JSON(coupons)
}

// RedeemCouponRequest represents the request body for a standalone
// redemption.
type RedeemCouponRequest struct {
	CouponID string  `json:"coupon_id" validate:"required"`
	Amount   float64 `json:"amount"`
}

// HandleRedeemCoupon redeems a coupon against an amount. An invalid
// coupon is not an HTTP error: the result comes back with applied=false
// and the amount unchanged.
func (h *CouponHandler) HandleRedeemCoupon(c *fiber.Ctx) error {
	var req RedeemCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	result, err := h.coupons.Redeem(middleware.UserID(c), req.CouponID, req.Amount)
	if err != nil {
		log.Printf("Error redeeming coupon %s: %v", req.CouponID, err)
		return errorJSON(c, "Could not redeem coupon", err)
	}
	return c.JSON(result)
}

// IssueCouponRequest represents the request body for admin issuance.
type IssueCouponRequest struct {
	UserID  string  `json:"user_id" validate:"required"`
	Percent float64 `json:"percent" validate:"required,gt=0,lte=100"`
}

// HandleIssueCoupon mints a coupon for a user (admin only).
func (h *CouponHandler) HandleIssueCoupon(c *fiber.Ctx) error {
	var req IssueCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	coupon, err := h.coupons.Issue(req.UserID, req.Percent, services.PrefixAdHoc)
	if err != nil {
		log.Printf("Error issuing coupon for user %s: %v", req.UserID, err)
		return errorJSON(c, "Could not issue coupon", err)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}
