package payment

import (
	"context"

	"github.com/platipay/server/internal/module/order"
	"github.com/platipay/server/internal/module/payment/domain"
	"github.com/platipay/server/internal/shared/events"
)

// OrderStore defines the order operations reconciliation needs.
// *order.Service satisfies it.
type OrderStore interface {
	// GetOrderByID returns the order or order.ErrOrderNotFound.
	GetOrderByID(ctx context.Context, id int) (*order.Order, error)

	// UpdateOrder persists the order statuses as given.
	UpdateOrder(ctx context.Context, o *order.Order) error

	// InsertOrderNote appends an audit note.
	InsertOrderNote(ctx context.Context, note *order.OrderNote) error
}

// SettingsLoader returns the merchant settings in effect for a store.
// *settings.Service satisfies it.
type SettingsLoader interface {
	Load(ctx context.Context, storeID int) (domain.MerchantSettings, error)
}

// EventPublisher publishes status change events.
type EventPublisher interface {
	Publish(ctx context.Context, event *events.PaymentStatusChanged) error
}

// CurrencyConverter converts an order total into the currency charged.
type CurrencyConverter interface {
	Convert(amount float64, from, to string) (float64, error)
}
