package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreInventory is one product's listing in one store. A nil Stock means the
// store does not track stock for the product.
type StoreInventory struct {
	ID         string           `db:"id" json:"id"`
	StoreID    string           `db:"store_id" json:"store_id"`
	ProductID  string           `db:"product_id" json:"product_id"`
	StorePrice *decimal.Decimal `db:"store_price" json:"store_price"`
	Stock      *int             `db:"stock" json:"stock"`
	IsListed   bool             `db:"is_listed" json:"is_listed"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

const (
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"
)

type InventoryMovement struct {
	ID             string    `db:"id" json:"id"`
	StoreID        string    `db:"store_id" json:"store_id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// StockAdjustment asks for a relative stock change of one product in one
// store. Delta is negative for sales.
type StockAdjustment struct {
	StoreID      string
	ProductID    string
	Delta        int
	MovementType string
	ReferenceID  string
	Reason       string
}
