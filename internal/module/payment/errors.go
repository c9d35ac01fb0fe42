package payment

import "errors"

// Module errors.
var (
	ErrUnsupportedTransactMode = errors.New("Not supported transaction type")
	ErrInvalidOrderNumber      = errors.New("invalid order number")
	ErrUnknownCurrency         = errors.New("no exchange rate for currency")
	ErrPaymentTooEarly         = errors.New("order was placed less than 5 seconds ago")
)
