// Package publisher announces committed orders on the message broker.
package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/order"
)

// Producer is the write half of the Kafka client.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type OrderPublisher struct {
	producer Producer
	now      func() time.Time
}

func NewOrderPublisher(producer Producer) *OrderPublisher {
	return &OrderPublisher{producer: producer, now: time.Now}
}

// PublishOrderCreated keys the message by store so one store's orders stay
// in sequence on a partition.
func (p *OrderPublisher) PublishOrderCreated(ctx context.Context, o *model.Order) error {
	event := order.NewOrderCreatedEvent(o, p.now())
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := event.Payload.StoreID
	if key == "" {
		key = o.ID
	}
	return p.producer.Publish(ctx, key, value)
}
