package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	expensedto "github.com/fekuna/omnipos-register/internal/expense/dto"
	"github.com/fekuna/omnipos-register/internal/ledger"
	"github.com/fekuna/omnipos-register/internal/ledger/dto"
	"github.com/fekuna/omnipos-register/internal/model"
	orderdto "github.com/fekuna/omnipos-register/internal/order/dto"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var ErrInvalidRange = errors.New("invalid date range")

type OrderLister interface {
	ListOrders(ctx context.Context, filters *orderdto.OrderFilters) ([]model.Order, error)
}

type ExpenseLister interface {
	ListExpenses(ctx context.Context, filters *expensedto.ExpenseFilters) ([]model.Expense, error)
}

type ledgerUseCase struct {
	orders   OrderLister
	expenses ExpenseLister
	methods  []string
	loc      *time.Location
	now      func() time.Time
}

// NewLedgerUseCase builds the takings report. methods seeds the per-method
// totals so every configured method shows up, the first one also absorbing
// orders saved without a method.
func NewLedgerUseCase(orders OrderLister, expenses ExpenseLister, methods []string, loc *time.Location) ledger.UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ledgerUseCase{
		orders:   orders,
		expenses: expenses,
		methods:  methods,
		loc:      loc,
		now:      time.Now,
	}
}

func (uc *ledgerUseCase) Report(ctx context.Context, q *dto.ReportQuery) (*dto.Report, error) {
	today := uc.now().In(uc.loc).Format(dateLayout)
	fromText, toText := q.From, q.To
	if fromText == "" {
		fromText = today
	}
	if toText == "" {
		toText = fromText
	}

	from, err := time.ParseInLocation(dateLayout, fromText, uc.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: from: %w", ErrInvalidRange, err)
	}
	to, err := time.ParseInLocation(dateLayout, toText, uc.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: to: %w", ErrInvalidRange, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, toText, fromText)
	}
	end := to.AddDate(0, 0, 1)

	orders, err := uc.orders.ListOrders(ctx, &orderdto.OrderFilters{StoreID: q.StoreID, From: from, To: end})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	expenses, err := uc.expenses.ListExpenses(ctx, &expensedto.ExpenseFilters{StoreID: q.StoreID, From: from, To: end})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	report := Summarize(orders, expenses, uc.methods)
	report.From = fromText
	report.To = toText
	return report, nil
}

// Summarize totals revenue per payment method and subtracts expenses.
func Summarize(orders []model.Order, expenses []model.Expense, methods []string) *dto.Report {
	report := &dto.Report{
		Revenue:  decimal.Zero,
		Expense:  decimal.Zero,
		ByMethod: make(map[string]decimal.Decimal, len(methods)),
		Orders:   orders,
		Expenses: expenses,
	}
	for _, m := range methods {
		report.ByMethod[m] = decimal.Zero
	}

	for _, o := range orders {
		report.Revenue = report.Revenue.Add(o.TotalAmount)
		method := o.PaymentMethod
		if method == "" && len(methods) > 0 {
			method = methods[0]
		}
		report.ByMethod[method] = report.ByMethod[method].Add(o.TotalAmount)
	}
	for _, e := range expenses {
		report.Expense = report.Expense.Add(e.Amount)
	}
	report.Net = report.Revenue.Sub(report.Expense)
	return report
}
