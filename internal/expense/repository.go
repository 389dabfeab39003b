package expense

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/expense/dto"
	"github.com/fekuna/omnipos-register/internal/model"
)

type Repository interface {
	Create(ctx context.Context, e *model.Expense) error
	FindByID(ctx context.Context, id string) (*model.Expense, error)
	FindAll(ctx context.Context, filters *dto.ExpenseFilters) ([]model.Expense, error)
	Update(ctx context.Context, e *model.Expense) error
}
