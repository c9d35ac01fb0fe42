package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type constants.
const (
	PaymentStatusChangedType = "PaymentStatusChanged"
)

// BaseEvent carries the fields shared by every domain event.
type BaseEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewBaseEvent stamps a new event of the given type.
func NewBaseEvent(eventType string, now time.Time) BaseEvent {
	return BaseEvent{
		EventID:    uuid.New(),
		EventType:  eventType,
		OccurredAt: now.UTC(),
	}
}

// PaymentStatusChanged is emitted after a processor status was applied to an order.
type PaymentStatusChanged struct {
	BaseEvent

	// OrderID is the store order the status applies to.
	OrderID int `json:"order_id"`

	// StoreID is the store the order belongs to.
	StoreID int `json:"store_id"`

	// PaymentStatus is the payment status after the change.
	PaymentStatus string `json:"payment_status"`

	// OrderStatus is the order status after the change.
	OrderStatus string `json:"order_status"`

	// Channel is the path the status arrived through (redirect, notify, itsn, query).
	Channel string `json:"channel"`
}

// NewPaymentStatusChanged creates a new PaymentStatusChanged event.
func NewPaymentStatusChanged(orderID, storeID int, paymentStatus, orderStatus, channel string, now time.Time) *PaymentStatusChanged {
	return &PaymentStatusChanged{
		BaseEvent:     NewBaseEvent(PaymentStatusChangedType, now),
		OrderID:       orderID,
		StoreID:       storeID,
		PaymentStatus: paymentStatus,
		OrderStatus:   orderStatus,
		Channel:       channel,
	}
}
