// Package checkout commits a frozen copy of a register session as an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrPersistence wraps every storage failure that aborts a commit.
var ErrPersistence = errors.New("checkout: persistence failed")

const defaultPublishTimeout = 2 * time.Second

type OrderWriter interface {
	CreateOrder(ctx context.Context, order *model.Order) (string, error)
	CreateOrderItems(ctx context.Context, orderID string, items []model.OrderItem) error
	DeleteOrder(ctx context.Context, orderID string) error
}

type StockAdjuster interface {
	AdjustStock(ctx context.Context, adj model.StockAdjustment) error
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *model.Order) error
}

// Snapshot is the session state frozen at the moment checkout starts. It
// owns its lines; later cart edits cannot reach it.
type Snapshot struct {
	StoreID       string
	Lines         []cart.Line
	Discount      pricing.Discount
	Totals        pricing.Totals
	Received      decimal.Decimal
	Change        decimal.Decimal
	Member        *model.Member
	PaymentMethod string
	TakenAt       time.Time
}

// Receipt is what the operator sees after a successful commit.
type Receipt struct {
	OrderID          string          `json:"order_id"`
	StoreID          string          `json:"store_id"`
	Items            []cart.Line     `json:"items"`
	OriginalSubtotal decimal.Decimal `json:"original_subtotal"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Discount         string          `json:"discount"`
	Total            decimal.Decimal `json:"total"`
	Received         decimal.Decimal `json:"received"`
	Change           decimal.Decimal `json:"change"`
	PaymentMethod    string          `json:"payment_method"`
	Member           *model.Member   `json:"member,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	StockWarnings    []string        `json:"stock_warnings,omitempty"`
}

type Committer struct {
	orders         OrderWriter
	stock          StockAdjuster
	events         EventPublisher
	logger         logger.ZapLogger
	timeout        time.Duration
	publishTimeout time.Duration
}

// NewCommitter wires the commit steps. stock and events may be nil.
func NewCommitter(orders OrderWriter, stock StockAdjuster, events EventPublisher, log logger.ZapLogger, timeout time.Duration) *Committer {
	return &Committer{
		orders:         orders,
		stock:          stock,
		events:         events,
		logger:         log,
		timeout:        timeout,
		publishTimeout: defaultPublishTimeout,
	}
}

// WithPublishTimeout bounds the order-created event separately from the
// commit. Non-positive values keep the default.
func (c *Committer) WithPublishTimeout(d time.Duration) *Committer {
	if d > 0 {
		c.publishTimeout = d
	}
	return c
}

// Commit writes the order header, then its items, then adjusts tracked
// stock. Once started it runs to completion even if ctx is cancelled; only
// the configured timeout cuts it short.
func (c *Committer) Commit(ctx context.Context, snap Snapshot) (*Receipt, error) {
	ctx = context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	order := buildOrder(snap)

	orderID, err := c.orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %w", ErrPersistence, err)
	}
	order.ID = orderID
	for i := range order.Items {
		order.Items[i].OrderID = orderID
	}

	if err := c.orders.CreateOrderItems(ctx, orderID, order.Items); err != nil {
		if delErr := c.orders.DeleteOrder(ctx, orderID); delErr != nil {
			c.logger.Error("failed to roll back order header",
				zap.String("order_id", orderID),
				zap.Error(delErr),
			)
			err = multierr.Append(err, delErr)
		}
		return nil, fmt.Errorf("%w: create order items: %w", ErrPersistence, err)
	}

	receipt := &Receipt{
		OrderID:          orderID,
		StoreID:          snap.StoreID,
		Items:            snap.Lines,
		OriginalSubtotal: snap.Totals.OriginalSubtotal,
		Subtotal:         snap.Totals.Subtotal,
		Discount:         order.Discount,
		Total:            snap.Totals.Final,
		Received:         snap.Received,
		Change:           snap.Change,
		PaymentMethod:    snap.PaymentMethod,
		Member:           snap.Member,
		CreatedAt:        order.CreatedAt,
	}

	if stockErr := c.adjustStock(ctx, orderID, snap); stockErr != nil {
		for _, e := range multierr.Errors(stockErr) {
			receipt.StockWarnings = append(receipt.StockWarnings, e.Error())
		}
		c.logger.Warn("order saved but stock adjustment failed",
			zap.String("order_id", orderID),
			zap.Error(stockErr),
		)
	}

	c.publish(ctx, order)

	c.logger.Info("order committed",
		zap.String("order_id", orderID),
		zap.String("store_id", snap.StoreID),
		zap.String("total", snap.Totals.Final.String()),
		zap.Int("lines", len(snap.Lines)),
	)

	return receipt, nil
}

// publish is best-effort and bounded by publishTimeout, independent of what
// is left of the commit budget.
func (c *Committer) publish(ctx context.Context, order *model.Order) {
	if c.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.publishTimeout)
	defer cancel()

	if err := c.events.PublishOrderCreated(ctx, order); err != nil {
		c.logger.Warn("failed to publish order created event",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}

func (c *Committer) adjustStock(ctx context.Context, orderID string, snap Snapshot) error {
	if c.stock == nil {
		return nil
	}

	var errs error
	for _, line := range snap.Lines {
		if !line.TracksStock {
			continue
		}
		err := c.stock.AdjustStock(ctx, model.StockAdjustment{
			StoreID:      snap.StoreID,
			ProductID:    line.ProductRef,
			Delta:        -line.Quantity,
			MovementType: model.MovementSale,
			ReferenceID:  orderID,
			Reason:       "sale",
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("product %s (%s): %w", line.Name, line.ProductRef, err))
		}
	}
	return errs
}

func buildOrder(snap Snapshot) *model.Order {
	order := &model.Order{
		TotalAmount:   snap.Totals.Final,
		PaymentMethod: snap.PaymentMethod,
		Discount:      snap.Discount.String(),
		CreatedAt:     snap.TakenAt.UTC(),
	}
	if snap.StoreID != "" {
		storeID := snap.StoreID
		order.StoreID = &storeID
	}
	if snap.Member != nil {
		memberID := snap.Member.ID
		order.MemberID = &memberID
	}

	order.Items = make([]model.OrderItem, len(snap.Lines))
	for i, line := range snap.Lines {
		order.Items[i] = model.OrderItem{
			ProductID: line.ProductRef,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
			CreatedAt: order.CreatedAt,
		}
	}
	return order
}
