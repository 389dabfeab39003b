package listener

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/order"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the read half of the Kafka consumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type CatalogInvalidator interface {
	Invalidate(ctx context.Context, storeID string) error
}

// StoreRefresher reloads the catalog of open register sessions.
type StoreRefresher interface {
	RefreshStore(ctx context.Context, storeID string) error
}

// OrderListener keeps every register's stock figures current after any
// register, on any instance, completes a sale.
type OrderListener struct {
	consumer MessageReader
	catalog  CatalogInvalidator
	sessions StoreRefresher
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewOrderListener(consumer MessageReader, catalog CatalogInvalidator, sessions StoreRefresher, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		catalog:  catalog,
		sessions: sessions,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting order Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	event, err := order.ParseEvent(value)
	if err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != order.EventOrderCreated || event.Payload.StoreID == "" {
		return
	}

	storeID := event.Payload.StoreID
	l.logger.Debug("Processing OrderCreated event",
		zap.String("order_id", event.Payload.ID),
		zap.String("store_id", storeID),
	)

	if err := l.catalog.Invalidate(ctx, storeID); err != nil {
		l.logger.Warn("Failed to invalidate catalog", zap.String("store_id", storeID), zap.Error(err))
	}
	if err := l.sessions.RefreshStore(ctx, storeID); err != nil {
		l.logger.Error("Failed to refresh register sessions", zap.String("store_id", storeID), zap.Error(err))
	}
}
