package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
	"github.com/vastralabs/vastra-backend/pkg/redis"
)

const (
	orderScope   = "orders"
	supportScope = "support"
)

// StatusEvent is the payload broadcast when an order changes status.
type StatusEvent struct {
	OrderID string            `json:"order_id"`
	Status  enums.OrderStatus `json:"status"`
	At      time.Time         `json:"at"`
}

// Bus fans order and support events out over redis pub/sub so every API
// instance can serve live streams for orders it did not mutate itself.
type Bus struct {
	client *redis.Client
	logg   *logger.Logger
	now    func() time.Time
}

// NewBus builds the event bus.
func NewBus(client *redis.Client, logg *logger.Logger) (*Bus, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Bus{client: client, logg: logg, now: time.Now}, nil
}

// PublishStatus broadcasts an order status change on the order's channel.
func (b *Bus) PublishStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	event := StatusEvent{
		OrderID: orderID.String(),
		Status:  status,
		At:      b.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "encoding status event")
	}

	channel := b.client.EventChannel(orderScope, orderID.String())
	if err := b.client.Publish(ctx, channel, payload); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "publishing status event")
	}
	return nil
}

// PublishSupportMessage broadcasts a pre-encoded support message on the
// conversation's channel.
func (b *Bus) PublishSupportMessage(ctx context.Context, conversationID uuid.UUID, payload []byte) error {
	channel := b.client.EventChannel(supportScope, conversationID.String())
	if err := b.client.Publish(ctx, channel, payload); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "publishing support message")
	}
	return nil
}

// SubscribeStatus opens a live stream of status changes for one order.
// Consecutive duplicate statuses are dropped so reconnecting publishers do
// not replay noise to the client. Close the stream when done.
func (b *Bus) SubscribeStatus(ctx context.Context, orderID uuid.UUID) *StatusStream {
	channel := b.client.EventChannel(orderScope, orderID.String())
	pubsub := b.client.Subscribe(ctx, channel)

	stream := &StatusStream{
		events: make(chan StatusEvent, 8),
		pubsub: pubsub,
	}
	go stream.forward(ctx, pubsub.Channel(), b.logg)
	return stream
}

// SubscribeSupport opens a live stream of raw message payloads for one
// support conversation. Close the stream when done.
func (b *Bus) SubscribeSupport(ctx context.Context, conversationID uuid.UUID) *RawStream {
	channel := b.client.EventChannel(supportScope, conversationID.String())
	pubsub := b.client.Subscribe(ctx, channel)

	stream := &RawStream{
		payloads: make(chan []byte, 8),
		pubsub:   pubsub,
	}
	go stream.forward(ctx, pubsub.Channel())
	return stream
}

// StatusStream delivers decoded status events for a single order.
type StatusStream struct {
	events chan StatusEvent
	pubsub *goredis.PubSub
}

// Events is closed when the subscription ends.
func (s *StatusStream) Events() <-chan StatusEvent {
	return s.events
}

// Close tears down the subscription.
func (s *StatusStream) Close() error {
	return s.pubsub.Close()
}

func (s *StatusStream) forward(ctx context.Context, msgs <-chan *goredis.Message, logg *logger.Logger) {
	defer close(s.events)

	var lastSeen enums.OrderStatus
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var event StatusEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logg.Warn(ctx, "dropping malformed status event")
				continue
			}
			if event.Status == lastSeen {
				continue
			}
			lastSeen = event.Status

			select {
			case s.events <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

// RawStream delivers opaque payloads for a single channel.
type RawStream struct {
	payloads chan []byte
	pubsub   *goredis.PubSub
}

// Payloads is closed when the subscription ends.
func (s *RawStream) Payloads() <-chan []byte {
	return s.payloads
}

// Close tears down the subscription.
func (s *RawStream) Close() error {
	return s.pubsub.Close()
}

func (s *RawStream) forward(ctx context.Context, msgs <-chan *goredis.Message) {
	defer close(s.payloads)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			select {
			case s.payloads <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}
}
