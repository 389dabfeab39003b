package dto

import "github.com/shopspring/decimal"

type UpsertListingInput struct {
	StoreID    string           `json:"-"`
	ProductID  string           `json:"-"`
	IsListed   bool             `json:"is_listed"`
	StorePrice *decimal.Decimal `json:"store_price"`
}

type AdjustInventoryInput struct {
	StoreID        string `json:"-"`
	ProductID      string `json:"-"`
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason"`
	ReferenceID    string `json:"reference_id"`
}
