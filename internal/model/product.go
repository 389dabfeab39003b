package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	CategoryID     *string          `db:"category_id" json:"category_id"` // Nullable
	Name           string           `db:"name" json:"name"`
	SuggestedPrice *decimal.Decimal `db:"suggested_price" json:"suggested_price"`
	MemberPrice    *decimal.Decimal `db:"member_price" json:"member_price"`
}
