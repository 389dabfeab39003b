package dto

import "github.com/shopspring/decimal"

type UpdateExpenseInput struct {
	ID     string          `json:"-"`
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}
