package expense

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/expense/dto"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	// RecordExpense books petty cash taken from the register's drawer.
	RecordExpense(ctx context.Context, storeID string, amount decimal.Decimal, reason string) (*model.Expense, error)
	UpdateExpense(ctx context.Context, input *dto.UpdateExpenseInput) (*model.Expense, error)
	ListExpenses(ctx context.Context, filters *dto.ExpenseFilters) ([]model.Expense, error)
}
