package checkout_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/checkout"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrderWriter struct {
	createOrderFunc      func(ctx context.Context, order *model.Order) (string, error)
	createOrderItemsFunc func(ctx context.Context, orderID string, items []model.OrderItem) error
	deleteOrderFunc      func(ctx context.Context, orderID string) error
}

func (m *mockOrderWriter) CreateOrder(ctx context.Context, order *model.Order) (string, error) {
	return m.createOrderFunc(ctx, order)
}

func (m *mockOrderWriter) CreateOrderItems(ctx context.Context, orderID string, items []model.OrderItem) error {
	return m.createOrderItemsFunc(ctx, orderID, items)
}

func (m *mockOrderWriter) DeleteOrder(ctx context.Context, orderID string) error {
	return m.deleteOrderFunc(ctx, orderID)
}

type mockStock struct {
	adjustFunc func(ctx context.Context, adj model.StockAdjustment) error
}

func (m *mockStock) AdjustStock(ctx context.Context, adj model.StockAdjustment) error {
	return m.adjustFunc(ctx, adj)
}

type mockPublisher struct {
	published   []*model.Order
	err         error
	publishFunc func(ctx context.Context, order *model.Order) error
}

func (m *mockPublisher) PublishOrderCreated(ctx context.Context, order *model.Order) error {
	m.published = append(m.published, order)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, order)
	}
	return m.err
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleSnapshot() checkout.Snapshot {
	lines := []cart.Line{
		{ProductRef: "pa", Name: "A", UnitPrice: d("50"), Quantity: 2, TracksStock: true},
		{ProductRef: "pb", Name: "B", UnitPrice: d("30"), Quantity: 1},
	}
	discount := pricing.DefaultDiscount()
	return checkout.Snapshot{
		StoreID:       "store-1",
		Lines:         lines,
		Discount:      discount,
		Totals:        pricing.Compute(lines, discount),
		Received:      d("130"),
		Change:        decimal.Zero,
		Member:        &model.Member{BaseModel: model.BaseModel{ID: "m1"}, Name: "Amy"},
		PaymentMethod: "cash",
		TakenAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func okWriter(calls *[]string) *mockOrderWriter {
	return &mockOrderWriter{
		createOrderFunc: func(ctx context.Context, order *model.Order) (string, error) {
			*calls = append(*calls, "create_order")
			return "order-1", nil
		},
		createOrderItemsFunc: func(ctx context.Context, orderID string, items []model.OrderItem) error {
			*calls = append(*calls, "create_items")
			return nil
		},
		deleteOrderFunc: func(ctx context.Context, orderID string) error {
			*calls = append(*calls, "delete_order")
			return nil
		},
	}
}

func TestCommit_Success(t *testing.T) {
	var calls []string
	var header *model.Order
	var items []model.OrderItem
	var adjustments []model.StockAdjustment

	writer := okWriter(&calls)
	writer.createOrderFunc = func(ctx context.Context, order *model.Order) (string, error) {
		calls = append(calls, "create_order")
		header = order
		return "order-1", nil
	}
	writer.createOrderItemsFunc = func(ctx context.Context, orderID string, it []model.OrderItem) error {
		calls = append(calls, "create_items")
		assert.Equal(t, "order-1", orderID)
		items = it
		return nil
	}
	stock := &mockStock{adjustFunc: func(ctx context.Context, adj model.StockAdjustment) error {
		calls = append(calls, "adjust_stock")
		adjustments = append(adjustments, adj)
		return nil
	}}
	pub := &mockPublisher{}

	c := checkout.NewCommitter(writer, stock, pub, logger.NewNop(), time.Second)
	receipt, err := c.Commit(context.Background(), sampleSnapshot())

	require.NoError(t, err)
	assert.Equal(t, []string{"create_order", "create_items", "adjust_stock"}, calls)

	require.NotNil(t, header)
	assert.Equal(t, "130", header.TotalAmount.String())
	assert.Equal(t, "cash", header.PaymentMethod)
	assert.Equal(t, "", header.Discount)
	require.NotNil(t, header.MemberID)
	assert.Equal(t, "m1", *header.MemberID)
	require.NotNil(t, header.StoreID)
	assert.Equal(t, "store-1", *header.StoreID)

	require.Len(t, items, 2)
	assert.Equal(t, "pa", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "50", items[0].Price.String())
	assert.Equal(t, "order-1", items[0].OrderID)

	require.Len(t, adjustments, 1, "untracked lines skip stock")
	assert.Equal(t, model.StockAdjustment{
		StoreID:      "store-1",
		ProductID:    "pa",
		Delta:        -2,
		MovementType: model.MovementSale,
		ReferenceID:  "order-1",
		Reason:       "sale",
	}, adjustments[0])

	assert.Equal(t, "order-1", receipt.OrderID)
	assert.Equal(t, "130", receipt.Total.String())
	assert.Equal(t, "0", receipt.Change.String())
	assert.Empty(t, receipt.StockWarnings)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "order-1", pub.published[0].ID)
}

func TestCommit_CreateOrderFails(t *testing.T) {
	var calls []string
	writer := okWriter(&calls)
	writer.createOrderFunc = func(ctx context.Context, order *model.Order) (string, error) {
		return "", errors.New("connection refused")
	}
	pub := &mockPublisher{}

	c := checkout.NewCommitter(writer, nil, pub, logger.NewNop(), 0)
	receipt, err := c.Commit(context.Background(), sampleSnapshot())

	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, checkout.ErrPersistence)
	assert.ErrorContains(t, err, "connection refused")
	assert.Empty(t, calls)
	assert.Empty(t, pub.published)
}

func TestCommit_ItemsFailCompensates(t *testing.T) {
	var calls []string
	var deleted string
	writer := okWriter(&calls)
	writer.createOrderItemsFunc = func(ctx context.Context, orderID string, items []model.OrderItem) error {
		return errors.New("check constraint")
	}
	writer.deleteOrderFunc = func(ctx context.Context, orderID string) error {
		deleted = orderID
		return nil
	}
	stock := &mockStock{adjustFunc: func(ctx context.Context, adj model.StockAdjustment) error {
		t.Fatal("stock must not move when items fail")
		return nil
	}}

	c := checkout.NewCommitter(writer, stock, nil, logger.NewNop(), 0)
	_, err := c.Commit(context.Background(), sampleSnapshot())

	assert.ErrorIs(t, err, checkout.ErrPersistence)
	assert.ErrorContains(t, err, "check constraint")
	assert.Equal(t, "order-1", deleted)
}

func TestCommit_CompensationFailureIsReported(t *testing.T) {
	var calls []string
	writer := okWriter(&calls)
	writer.createOrderItemsFunc = func(ctx context.Context, orderID string, items []model.OrderItem) error {
		return errors.New("items down")
	}
	writer.deleteOrderFunc = func(ctx context.Context, orderID string) error {
		return errors.New("delete down")
	}

	c := checkout.NewCommitter(writer, nil, nil, logger.NewNop(), 0)
	_, err := c.Commit(context.Background(), sampleSnapshot())

	assert.ErrorIs(t, err, checkout.ErrPersistence)
	assert.ErrorContains(t, err, "items down")
	assert.ErrorContains(t, err, "delete down")
}

func TestCommit_StockFailureDoesNotFailCheckout(t *testing.T) {
	var calls []string
	snap := sampleSnapshot()
	snap.Lines[1].TracksStock = true

	stock := &mockStock{adjustFunc: func(ctx context.Context, adj model.StockAdjustment) error {
		if adj.ProductID == "pb" {
			return errors.New("lock busy")
		}
		return nil
	}}

	c := checkout.NewCommitter(okWriter(&calls), stock, nil, logger.NewNop(), 0)
	receipt, err := c.Commit(context.Background(), snap)

	require.NoError(t, err)
	require.Len(t, receipt.StockWarnings, 1)
	assert.Contains(t, receipt.StockWarnings[0], "lock busy")
	assert.Contains(t, receipt.StockWarnings[0], "pb")
}

func TestCommit_PublishFailureIsIgnored(t *testing.T) {
	var calls []string
	pub := &mockPublisher{err: errors.New("broker down")}

	c := checkout.NewCommitter(okWriter(&calls), nil, pub, logger.NewNop(), 0)
	receipt, err := c.Commit(context.Background(), sampleSnapshot())

	require.NoError(t, err)
	assert.Equal(t, "order-1", receipt.OrderID)
}

func TestCommit_StalledPublisherDoesNotHoldCommit(t *testing.T) {
	var calls []string
	var publishDeadline time.Time
	pub := &mockPublisher{publishFunc: func(ctx context.Context, order *model.Order) error {
		publishDeadline, _ = ctx.Deadline()
		<-ctx.Done()
		return ctx.Err()
	}}

	c := checkout.NewCommitter(okWriter(&calls), nil, pub, logger.NewNop(), time.Minute).
		WithPublishTimeout(50 * time.Millisecond)

	start := time.Now()
	receipt, err := c.Commit(context.Background(), sampleSnapshot())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "order-1", receipt.OrderID)
	assert.Less(t, elapsed, 5*time.Second)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "order-1", pub.published[0].ID)
	assert.WithinDuration(t, start.Add(50*time.Millisecond), publishDeadline, time.Second)
}

func TestCommit_IgnoresCallerCancellation(t *testing.T) {
	var calls []string
	writer := okWriter(&calls)
	writer.createOrderFunc = func(ctx context.Context, order *model.Order) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "order-1", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := checkout.NewCommitter(writer, nil, nil, logger.NewNop(), time.Second)
	receipt, err := c.Commit(ctx, sampleSnapshot())

	require.NoError(t, err)
	assert.Equal(t, "order-1", receipt.OrderID)
}

func TestCommit_DiscountDescriptor(t *testing.T) {
	var calls []string
	var header *model.Order
	writer := okWriter(&calls)
	writer.createOrderFunc = func(ctx context.Context, order *model.Order) (string, error) {
		header = order
		return "order-1", nil
	}

	snap := sampleSnapshot()
	snap.Discount = pricing.Discount{Flat: d("20"), Percent: d("90")}
	snap.Totals = pricing.Compute(snap.Lines, snap.Discount)

	c := checkout.NewCommitter(writer, nil, nil, logger.NewNop(), 0)
	receipt, err := c.Commit(context.Background(), snap)

	require.NoError(t, err)
	assert.Equal(t, "90% -20", header.Discount)
	assert.Equal(t, "97", header.TotalAmount.String())
	assert.Equal(t, "90% -20", receipt.Discount)
}
