package handlers

import (
	"errors"

	"dollmart/internal/repositories"
	"dollmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps service and store sentinels to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrProductNotFound),
		errors.Is(err, repositories.ErrOrderNotFound),
		errors.Is(err, repositories.ErrCouponNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrDuplicateUsername):
		return fiber.StatusConflict
	case errors.Is(err, repositories.ErrInsufficientStock),
		errors.Is(err, repositories.ErrProductReferenced),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrNegativeAmount),
		errors.Is(err, services.ErrNotInCart),
		errors.Is(err, services.ErrInvalidQuantity):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
