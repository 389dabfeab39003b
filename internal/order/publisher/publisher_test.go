package publisher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/order"
	"github.com/fekuna/omnipos-register/internal/order/publisher"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	publishFn func(key string, value []byte) error
	key       string
	value     []byte
}

func (f *fakeProducer) Publish(ctx context.Context, key string, value []byte) error {
	f.key, f.value = key, value
	if f.publishFn != nil {
		return f.publishFn(key, value)
	}
	return nil
}

func TestPublishOrderCreated(t *testing.T) {
	storeID := "store-1"
	o := &model.Order{
		ID:            "order-1",
		StoreID:       &storeID,
		TotalAmount:   decimal.NewFromInt(130),
		PaymentMethod: "cash",
		CreatedAt:     time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		Items: []model.OrderItem{
			{ProductID: "a", Quantity: 2, Price: decimal.NewFromInt(50)},
			{ProductID: "b", Quantity: 1, Price: decimal.NewFromInt(30)},
		},
	}
	producer := &fakeProducer{}

	require.NoError(t, publisher.NewOrderPublisher(producer).PublishOrderCreated(context.Background(), o))

	assert.Equal(t, "store-1", producer.key)
	event, err := order.ParseEvent(producer.value)
	require.NoError(t, err)
	assert.Equal(t, order.EventOrderCreated, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "order-1", event.Payload.ID)
	assert.Equal(t, "store-1", event.Payload.StoreID)
	assert.True(t, event.Payload.TotalAmount.Equal(decimal.NewFromInt(130)))
	require.Len(t, event.Payload.Items, 2)
	assert.Equal(t, 2, event.Payload.Items[0].Quantity)
}

func TestPublishOrderCreated_NoStoreKeysByOrder(t *testing.T) {
	producer := &fakeProducer{publishFn: func(string, []byte) error { return errors.New("broker down") }}

	err := publisher.NewOrderPublisher(producer).PublishOrderCreated(context.Background(), &model.Order{ID: "order-2"})

	assert.EqualError(t, err, "broker down")
	assert.Equal(t, "order-2", producer.key)
}
