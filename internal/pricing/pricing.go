// Package pricing turns cart lines and a discount into payable totals.
// Everything here is pure and recomputed on every cart change.
package pricing

import (
	"fmt"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/money"
	"github.com/shopspring/decimal"
)

var fullPercent = decimal.NewFromInt(100)

// Discount is the session discount. Percent is the share still charged, so
// 100 means no discount and 90 means 10% off.
type Discount struct {
	Flat    decimal.Decimal `json:"flat"`
	Percent decimal.Decimal `json:"percent"`
}

func DefaultDiscount() Discount {
	return Discount{Flat: decimal.Zero, Percent: fullPercent}
}

// Normalize clamps both parts to non-negative values.
func (d Discount) Normalize() Discount {
	return Discount{
		Flat:    money.ClampNonNegative(d.Flat),
		Percent: money.ClampNonNegative(d.Percent),
	}
}

func (d Discount) IsDefault() bool {
	return d.Flat.IsZero() && d.Percent.Equal(fullPercent)
}

// String is the descriptor stored on the order, e.g. "90% -20". It is empty
// when no discount applies.
func (d Discount) String() string {
	switch {
	case d.IsDefault():
		return ""
	case d.Flat.IsZero():
		return d.Percent.String() + "%"
	case d.Percent.Equal(fullPercent):
		return "-" + d.Flat.String()
	default:
		return fmt.Sprintf("%s%% -%s", d.Percent.String(), d.Flat.String())
	}
}

func Subtotal(lines []cart.Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount())
	}
	return total
}

func OriginalSubtotal(lines []cart.Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.OriginalAmount())
	}
	return total
}

// FinalTotal applies the percent first, rounds once half away from zero,
// then subtracts the flat amount. The result never goes below zero.
func FinalTotal(subtotal decimal.Decimal, d Discount) decimal.Decimal {
	d = d.Normalize()
	charged := money.Round(money.Percent(subtotal, d.Percent))
	return money.ClampNonNegative(charged.Sub(d.Flat))
}

type Totals struct {
	OriginalSubtotal decimal.Decimal `json:"original_subtotal"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Final            decimal.Decimal `json:"final"`
}

// Saved is how much less the customer pays than the undiscounted, unedited
// cart.
func (t Totals) Saved() decimal.Decimal {
	return money.ClampNonNegative(t.OriginalSubtotal.Sub(t.Final))
}

func Compute(lines []cart.Line, d Discount) Totals {
	subtotal := Subtotal(lines)
	return Totals{
		OriginalSubtotal: OriginalSubtotal(lines),
		Subtotal:         subtotal,
		Final:            FinalTotal(subtotal, d),
	}
}
