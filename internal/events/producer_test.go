package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.PublishEvent(context.Background(), TopicOrders, "k", OrderEvent{Type: TypeOrderCreated}))
}

func TestProducer_PublishEvent(t *testing.T) {
	broker := os.Getenv("KAFKA_TEST_BROKER")
	if broker == "" {
		t.Skip("KAFKA_TEST_BROKER is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	topic := "order_events_test_" + uuid.NewString()[:8]
	p := NewProducer([]string{broker})
	t.Cleanup(func() { _ = p.Close() })

	ev := OrderEvent{Type: TypeOrderCreated, OrderID: "o-1", Total: 2700, Timestamp: time.Now().UTC()}
	require.NoError(t, p.PublishEvent(ctx, topic, ev.OrderID, ev))

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
		MaxWait:   time.Second,
	})
	defer r.Close()

	m, err := r.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "o-1", string(m.Key))

	var got OrderEvent
	require.NoError(t, json.Unmarshal(m.Value, &got))
	assert.Equal(t, TypeOrderCreated, got.Type)
	assert.Equal(t, int64(2700), got.Total)
}
