package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes events as JSON messages keyed by order id, so
// every change of one order lands on the same partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

const publishBatchTimeout = 50 * time.Millisecond

// NewKafkaPublisher creates a publisher writing to topic on brokers. Writes
// are asynchronous; delivery failures are logged by the writer's completion
// callback.
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchTimeout: publishBatchTimeout,
	}
	p := newKafkaPublisher(writer, topic, logger)
	writer.Completion = p.delivered
	return p
}

func newKafkaPublisher(writer messageWriter, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic, logger: logger}
}

// Publish hands one message for the event to the writer. It does not wait
// for the broker.
func (p *KafkaPublisher) Publish(ctx context.Context, event *PaymentStatusChanged) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", p.topic),
			zap.Int("order_id", event.OrderID),
			zap.Error(err),
		)
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("topic", p.topic),
		zap.String("event_id", event.EventID.String()),
	)
	return nil
}

// delivered logs every message of a batch the writer failed to deliver.
func (p *KafkaPublisher) delivered(msgs []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, msg := range msgs {
		p.logger.Error("failed to deliver event",
			zap.String("topic", p.topic),
			zap.ByteString("order_id", msg.Key),
			zap.Error(err),
		)
	}
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
