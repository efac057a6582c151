package tracking

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vastralabs/vastra-backend/pkg/enums"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
}

func statusMessage(t *testing.T, orderID uuid.UUID, status enums.OrderStatus) *goredis.Message {
	t.Helper()
	payload, err := json.Marshal(StatusEvent{
		OrderID: orderID.String(),
		Status:  status,
		At:      time.Now().UTC(),
	})
	require.NoError(t, err)
	return &goredis.Message{Payload: string(payload)}
}

func TestStatusStreamDropsConsecutiveDuplicates(t *testing.T) {
	orderID := uuid.New()
	msgs := make(chan *goredis.Message, 8)
	stream := &StatusStream{events: make(chan StatusEvent, 8)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stream.forward(ctx, msgs, testLogger())

	msgs <- statusMessage(t, orderID, enums.OrderStatusConfirmed)
	msgs <- statusMessage(t, orderID, enums.OrderStatusConfirmed)
	msgs <- statusMessage(t, orderID, enums.OrderStatusShipped)
	close(msgs)

	var seen []enums.OrderStatus
	for event := range stream.Events() {
		seen = append(seen, event.Status)
	}
	assert.Equal(t, []enums.OrderStatus{enums.OrderStatusConfirmed, enums.OrderStatusShipped}, seen)
}

func TestStatusStreamSkipsMalformedPayloads(t *testing.T) {
	orderID := uuid.New()
	msgs := make(chan *goredis.Message, 4)
	stream := &StatusStream{events: make(chan StatusEvent, 4)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stream.forward(ctx, msgs, testLogger())

	msgs <- &goredis.Message{Payload: "not json"}
	msgs <- statusMessage(t, orderID, enums.OrderStatusDelivered)
	close(msgs)

	var seen []enums.OrderStatus
	for event := range stream.Events() {
		seen = append(seen, event.Status)
	}
	assert.Equal(t, []enums.OrderStatus{enums.OrderStatusDelivered}, seen)
}

func TestStatusStreamStopsOnContextCancel(t *testing.T) {
	msgs := make(chan *goredis.Message)
	stream := &StatusStream{events: make(chan StatusEvent)}

	ctx, cancel := context.WithCancel(context.Background())
	go stream.forward(ctx, msgs, testLogger())
	cancel()

	select {
	case _, open := <-stream.Events():
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("stream did not close after cancel")
	}
}

func TestRawStreamForwardsPayloads(t *testing.T) {
	msgs := make(chan *goredis.Message, 2)
	stream := &RawStream{payloads: make(chan []byte, 2)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stream.forward(ctx, msgs)

	msgs <- &goredis.Message{Payload: `{"body":"hello"}`}
	close(msgs)

	var seen []string
	for payload := range stream.Payloads() {
		seen = append(seen, string(payload))
	}
	assert.Equal(t, []string{`{"body":"hello"}`}, seen)
}
