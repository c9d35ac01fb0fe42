package events

import (
	"context"

	"go.uber.org/zap"
)

// Publisher delivers domain events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event *PaymentStatusChanged) error
	Close() error
}

// LogPublisher writes events to the application log. It is used when no
// broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher that only logs.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event *PaymentStatusChanged) error {
	p.logger.Info("payment status changed",
		zap.String("event_id", event.EventID.String()),
		zap.Int("order_id", event.OrderID),
		zap.Int("store_id", event.StoreID),
		zap.String("payment_status", event.PaymentStatus),
		zap.String("order_status", event.OrderStatus),
		zap.String("channel", event.Channel),
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error {
	return nil
}
