package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CategoryID     string           `json:"category_id"`
	Name           string           `json:"name"`
	SuggestedPrice *decimal.Decimal `json:"suggested_price"`
	MemberPrice    *decimal.Decimal `json:"member_price"`
}

type UpdateProductInput struct {
	ID             string           `json:"-"`
	CategoryID     string           `json:"category_id"`
	Name           string           `json:"name"`
	SuggestedPrice *decimal.Decimal `json:"suggested_price"`
	MemberPrice    *decimal.Decimal `json:"member_price"`
}
