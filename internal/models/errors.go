package models

import "errors"

// Domain rule violations surfaced by model methods. Handlers translate these
// to HTTP status codes; anything else is treated as a storage failure.
var (
	ErrAddressLimit    = errors.New("maximum of 3 addresses allowed")
	ErrAddressNotFound = errors.New("address not found")

	ErrItemNotFound  = errors.New("item not found in cart")
	ErrAlreadySaved  = errors.New("item is already saved for later")
	ErrAlreadyActive = errors.New("item is already in cart")

	ErrEmptyCart           = errors.New("no items to order")
	ErrOrderTerminal       = errors.New("order is in a terminal state")
	ErrCancelWindowExpired = errors.New("orders can only be cancelled within the allowed window")
)
