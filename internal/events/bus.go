// Package events carries domain notifications between storefront
// components over an in-process watermill pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/safar/go-storefront/internal/models"
)

const TopicOrderPlaced = "orders.placed"

type OrderPlaced struct {
	DeviceID string       `json:"deviceId"`
	Order    models.Order `json:"order"`
}

type OrderPlacedHandler func(ctx context.Context, evt OrderPlaced) error

// Bus blocks each publish until every subscriber has acked, so a placed
// order is recorded before the submission returns.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

func NewBus(logger watermill.LoggerAdapter) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			BlockPublishUntilSubscriberAck: true,
		}, logger),
		logger: logger,
	}
}

func (b *Bus) PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode order placed: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("order_number", evt.Order.OrderNumber)

	if err := b.pubsub.Publish(TopicOrderPlaced, msg); err != nil {
		return fmt.Errorf("publish order placed: %w", err)
	}
	return nil
}

// SubscribeOrderPlaced runs handler for every event until ctx ends. Handler
// errors are logged and the message is still acked; redelivering a
// deterministic failure would only spin.
func (b *Bus) SubscribeOrderPlaced(ctx context.Context, handler OrderPlacedHandler) error {
	messages, err := b.pubsub.Subscribe(ctx, TopicOrderPlaced)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicOrderPlaced, err)
	}

	go func() {
		for msg := range messages {
			b.handle(msg, handler)
		}
	}()

	return nil
}

func (b *Bus) handle(msg *message.Message, handler OrderPlacedHandler) {
	defer msg.Ack()

	fields := watermill.LogFields{"message_uuid": msg.UUID, "topic": TopicOrderPlaced}

	var evt OrderPlaced
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		b.logger.Error("decode order placed", err, fields)
		return
	}

	if err := handler(msg.Context(), evt); err != nil {
		b.logger.Error("handle order placed", err, fields)
	}
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
