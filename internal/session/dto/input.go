package dto

import (
	"github.com/fekuna/omnipos-register/internal/keypad"
	"github.com/shopspring/decimal"
)

type OpenSessionInput struct {
	StoreID string `json:"store_id"`
}

type AddProductInput struct {
	ProductID string `json:"product_id"`
}

// EditLineInput changes price and/or quantity of one cart line. Omitted
// fields are left as they are.
type EditLineInput struct {
	Price    *decimal.Decimal `json:"price"`
	Quantity *decimal.Decimal `json:"quantity"`
}

type OpenPromptInput struct {
	Kind      string `json:"kind"`
	LineIndex int    `json:"line_index"`
}

type KeyPressInput struct {
	Field keypad.Field `json:"field"`
	Key   keypad.Key   `json:"key"`
}

type PromptReasonInput struct {
	Reason string `json:"reason"`
}

// DiscountInput updates the session discount. An omitted part keeps its
// current value.
type DiscountInput struct {
	Flat    *decimal.Decimal `json:"flat"`
	Percent *decimal.Decimal `json:"percent"`
}

type ReceivedPresetInput struct {
	Amount int64 `json:"amount"`
}

type PaymentMethodInput struct {
	Method string `json:"method"`
}

type AttachMemberInput struct {
	Query string `json:"query"`
}

// RegisterSettings is the payment configuration a register screen renders.
type RegisterSettings struct {
	PaymentMethods       []string `json:"payment_methods"`
	DefaultPaymentMethod string   `json:"default_payment_method"`
	QuickAmounts         []int64  `json:"quick_amounts"`
}

type DrawerInput struct {
	StoreID   string `json:"store_id"`
	SessionID string `json:"session_id"`
}
