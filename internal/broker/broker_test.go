package broker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func sampleEvent() *models.OrderPlacedEvent {
	return &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		},
		OrderNumber: "ORD-0042",
		UserID:      "1",
		OrderDate:   "October 17, 2026",
		Total:       decimal.RequireFromString("226.00"),
		Items: []models.OrderItemData{
			{ProductID: "9", Name: "Widget", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		},
	}
}

func TestPublishOrderPlaced(t *testing.T) {
	w := &fakeWriter{}
	pub := NewEventPublisher(NewProducerWithWriter(w))

	require.NoError(t, pub.PublishOrderPlaced(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order-ORD-0042", string(w.msgs[0].Key))

	var decoded models.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, models.EventTypeOrderPlaced, decoded.EventType)
	assert.Equal(t, "ORD-0042", decoded.OrderNumber)
	assert.True(t, decoded.Total.Equal(decimal.RequireFromString("226")))
}

func TestPublishOrderPlaced_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	pub := NewEventPublisher(NewProducerWithWriter(w))

	err := pub.PublishOrderPlaced(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "failed to write message to kafka")
}

func TestEventHandler_RoutesOrderPlaced(t *testing.T) {
	h := NewEventHandler()
	var got *models.OrderPlacedEvent
	h.OnOrderPlaced(func(_ context.Context, e *models.OrderPlacedEvent) error {
		got = e
		return nil
	})

	raw, err := json.Marshal(sampleEvent())
	require.NoError(t, err)

	require.NoError(t, h.HandleMessage(context.Background(), kafka.Message{Value: raw}))
	require.NotNil(t, got)
	assert.Equal(t, "evt-1", got.EventID)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestEventHandler_IgnoresUnknownAndRejectsGarbage(t *testing.T) {
	h := NewEventHandler()

	assert.NoError(t, h.HandleMessage(context.Background(), kafka.Message{Value: []byte(`{"event_type":"SOMETHING_ELSE"}`)}))
	assert.Error(t, h.HandleMessage(context.Background(), kafka.Message{Value: []byte(`not json`)}))
}

func TestStartConsuming_CommitsHandledMessages(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{
		{Offset: 1, Value: []byte("ok")},
		{Offset: 2, Value: []byte("bad")},
		{Offset: 3, Value: []byte("ok")},
	}}
	c := NewConsumerWithReader(r, "orders")

	ctx, cancel := context.WithCancel(context.Background())
	handled := make(chan int64, 3)
	done := make(chan error, 1)
	go func() {
		done <- c.StartConsuming(ctx, func(_ context.Context, msg kafka.Message) error {
			handled <- msg.Offset
			if string(msg.Value) == "bad" {
				return errors.New("cannot handle")
			}
			return nil
		})
	}()

	for i := 0; i < 3; i++ {
		<-handled
	}
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 2, r.committedCount())
}
