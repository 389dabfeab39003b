package model

import "github.com/shopspring/decimal"

type Expense struct {
	BaseModel
	StoreID *string         `db:"store_id" json:"store_id"`
	Amount  decimal.Decimal `db:"amount" json:"amount"`
	Reason  string          `db:"reason" json:"reason"`
}
