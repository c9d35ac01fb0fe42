package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testEvent() *PaymentStatusChanged {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.FixedZone("EET", 2*3600))
	return NewPaymentStatusChanged(42, 1, "Authorized", "Processing", "redirect", now)
}

func TestNewPaymentStatusChanged(t *testing.T) {
	e := testEvent()

	assert.NotEqual(t, uuid.Nil, e.EventID)
	assert.Equal(t, PaymentStatusChangedType, e.EventType)
	assert.Equal(t, time.UTC, e.OccurredAt.Location())
	assert.Equal(t, 8, e.OccurredAt.Hour())
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "payment-status", zap.NewNop())

	e := testEvent()
	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "42", string(msg.Key))

	var decoded PaymentStatusChanged
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, e.EventID, decoded.EventID)
	assert.Equal(t, "Authorized", decoded.PaymentStatus)
	assert.Equal(t, "redirect", decoded.Channel)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w, "payment-status", zap.NewNop())

	err := p.Publish(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewKafkaPublisher_Async(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "payment-status", zap.NewNop())

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.True(t, w.Async)
	assert.Equal(t, publishBatchTimeout, w.BatchTimeout)
	assert.NotNil(t, w.Completion)
	assert.Equal(t, "payment-status", w.Topic)
}

func TestKafkaPublisher_DeliveryFailureLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	p := newKafkaPublisher(&fakeWriter{}, "payment-status", zap.New(core))

	p.delivered([]kafka.Message{{Key: []byte("42")}, {Key: []byte("43")}}, errors.New("leader not available"))
	p.delivered([]kafka.Message{{Key: []byte("44")}}, nil)

	entries := logs.FilterMessage("failed to deliver event").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "42", entries[0].ContextMap()["order_id"])
	assert.Equal(t, "43", entries[1].ContextMap()["order_id"])
	assert.Equal(t, "leader not available", entries[0].ContextMap()["error"])
}

func TestLogPublisher_Publish(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	require.NoError(t, p.Publish(context.Background(), testEvent()))
	require.Equal(t, 1, logs.Len())

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, int64(42), fields["order_id"])
	assert.Equal(t, "Authorized", fields["payment_status"])
}
