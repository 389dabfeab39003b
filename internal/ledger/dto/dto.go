package dto

import (
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/shopspring/decimal"
)

// ReportQuery takes inclusive local dates (YYYY-MM-DD). Empty dates mean
// today.
type ReportQuery struct {
	StoreID string
	From    string
	To      string
}

type Report struct {
	From     string                     `json:"from"`
	To       string                     `json:"to"`
	Revenue  decimal.Decimal            `json:"revenue"`
	Expense  decimal.Decimal            `json:"expense"`
	Net      decimal.Decimal            `json:"net"`
	ByMethod map[string]decimal.Decimal `json:"by_method"`
	Orders   []model.Order              `json:"orders"`
	Expenses []model.Expense            `json:"expenses"`
}
