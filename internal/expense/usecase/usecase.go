package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-register/internal/expense"
	"github.com/fekuna/omnipos-register/internal/expense/dto"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidAmount   = errors.New("expense amount must be positive")
)

type expenseUseCase struct {
	repo   expense.Repository
	logger logger.ZapLogger
}

func NewExpenseUseCase(repo expense.Repository, log logger.ZapLogger) expense.UseCase {
	return &expenseUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *expenseUseCase) RecordExpense(ctx context.Context, storeID string, amount decimal.Decimal, reason string) (*model.Expense, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	e := &model.Expense{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Amount:    amount,
		Reason:    strings.TrimSpace(reason),
	}
	if storeID != "" {
		e.StoreID = &storeID
	}

	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	uc.logger.Info("expense recorded",
		zap.String("expense_id", e.ID),
		zap.String("store_id", storeID),
		zap.String("amount", amount.String()),
	)
	return e, nil
}

func (uc *expenseUseCase) UpdateExpense(ctx context.Context, input *dto.UpdateExpenseInput) (*model.Expense, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	e, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}

	e.Amount = input.Amount
	e.Reason = strings.TrimSpace(input.Reason)
	e.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (uc *expenseUseCase) ListExpenses(ctx context.Context, filters *dto.ExpenseFilters) ([]model.Expense, error) {
	return uc.repo.FindAll(ctx, filters)
}
