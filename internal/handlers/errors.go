package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/sampoornam/internal/models"
)

// domainError maps model rule violations to HTTP errors. Unknown errors
// pass through to the app error handler as storage failures.
func domainError(err error) error {
	switch {
	case errors.Is(err, models.ErrAddressNotFound),
		errors.Is(err, models.ErrItemNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrAddressLimit),
		errors.Is(err, models.ErrAlreadySaved),
		errors.Is(err, models.ErrAlreadyActive),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrOrderTerminal),
		errors.Is(err, models.ErrCancelWindowExpired):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
