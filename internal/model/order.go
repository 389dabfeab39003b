package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            string          `db:"id" json:"id"`
	StoreID       *string         `db:"store_id" json:"store_id"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	MemberID      *string         `db:"member_id" json:"member_id"`
	Discount      string          `db:"discount" json:"discount"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	Items         []OrderItem     `db:"-" json:"items"`
}

type OrderItem struct {
	ID        string          `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"order_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Name      string          `db:"name" json:"name"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Position  int             `db:"position" json:"-"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

func (i OrderItem) Amount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
