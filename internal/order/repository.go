package order

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/order/dto"
)

type Repository interface {
	CreateOrder(ctx context.Context, order *model.Order) (string, error)
	CreateOrderItems(ctx context.Context, orderID string, items []model.OrderItem) error
	DeleteOrder(ctx context.Context, orderID string) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	// FindAll returns orders newest first with their items loaded.
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, error)
}
