package order

import "errors"

// Module errors.
var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidOrderID = errors.New("invalid order id")
	ErrEmptyNote      = errors.New("order note is empty")
)
