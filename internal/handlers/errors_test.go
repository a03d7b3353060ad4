package handlers

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/example/sampoornam/internal/models"
)

func TestDomainError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"address limit", models.ErrAddressLimit, fiber.StatusBadRequest},
		{"address not found", models.ErrAddressNotFound, fiber.StatusNotFound},
		{"item not found", models.ErrItemNotFound, fiber.StatusNotFound},
		{"already saved", models.ErrAlreadySaved, fiber.StatusBadRequest},
		{"already active", models.ErrAlreadyActive, fiber.StatusBadRequest},
		{"empty cart", models.ErrEmptyCart, fiber.StatusBadRequest},
		{"terminal order", models.ErrOrderTerminal, fiber.StatusBadRequest},
		{"cancel window", models.ErrCancelWindowExpired, fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := domainError(tc.err)
			var fiberErr *fiber.Error
			if !errors.As(mapped, &fiberErr) {
				t.Fatalf("expected a fiber error, got %T", mapped)
			}
			if fiberErr.Code != tc.code {
				t.Fatalf("expected status %d, got %d", tc.code, fiberErr.Code)
			}
		})
	}

	t.Run("storage failures pass through", func(t *testing.T) {
		storageErr := errors.New("connection reset")
		if mapped := domainError(storageErr); mapped != storageErr {
			t.Fatalf("expected error passed through, got %v", mapped)
		}
	})
}
