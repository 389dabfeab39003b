package usecase

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/order"
	"github.com/fekuna/omnipos-register/internal/order/dto"
)

var ErrOrderNotFound = errors.New("order not found")

type orderUseCase struct {
	repo order.Repository
}

func NewOrderUseCase(repo order.Repository) order.UseCase {
	return &orderUseCase{repo: repo}
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, error) {
	return uc.repo.FindAll(ctx, filters)
}
