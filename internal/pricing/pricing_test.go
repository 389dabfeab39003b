package pricing_test

import (
	"testing"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(price string, qty int) cart.Line {
	return cart.Line{ProductRef: "p", Name: "x", UnitPrice: d(price), Quantity: qty}
}

func TestSubtotal(t *testing.T) {
	assert.True(t, pricing.Subtotal(nil).IsZero())

	got := pricing.Subtotal([]cart.Line{line("50", 2), line("30", 1), line("0.5", 3)})
	assert.Equal(t, "131.5", got.String())
}

func TestFinalTotal(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		percent  string
		flat     string
		want     string
	}{
		{name: "no_discount", subtotal: "130", percent: "100", flat: "0", want: "130"},
		{name: "percent_before_flat", subtotal: "100", percent: "90", flat: "20", want: "70"},
		{name: "rounds_half_up", subtotal: "105", percent: "90", flat: "0", want: "95"},
		{name: "rounds_down_below_half", subtotal: "99", percent: "85", flat: "0", want: "84"},
		{name: "flat_larger_than_total", subtotal: "50", percent: "100", flat: "80", want: "0"},
		{name: "zero_percent", subtotal: "50", percent: "0", flat: "0", want: "0"},
		{name: "negative_flat_ignored", subtotal: "50", percent: "100", flat: "-10", want: "50"},
		{name: "negative_percent_clamped", subtotal: "50", percent: "-10", flat: "0", want: "0"},
		{name: "empty_cart", subtotal: "0", percent: "90", flat: "5", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.FinalTotal(d(tt.subtotal), pricing.Discount{Flat: d(tt.flat), Percent: d(tt.percent)})
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFinalTotal_PercentAppliedBeforeFlat(t *testing.T) {
	got := pricing.FinalTotal(d("100"), pricing.Discount{Flat: d("20"), Percent: d("90")})

	assert.Equal(t, "70", got.String())
	assert.NotEqual(t, "72", got.String())
}

func TestFinalTotal_NeverNegative(t *testing.T) {
	for _, sub := range []string{"0", "1", "99.99", "1000"} {
		for _, pct := range []string{"0", "50", "100", "250"} {
			for _, flat := range []string{"0", "1", "5000"} {
				got := pricing.FinalTotal(d(sub), pricing.Discount{Flat: d(flat), Percent: d(pct)})
				assert.False(t, got.IsNegative(), "sub=%s pct=%s flat=%s", sub, pct, flat)
			}
		}
	}
}

func TestDiscount_String(t *testing.T) {
	assert.Equal(t, "", pricing.DefaultDiscount().String())
	assert.Equal(t, "90%", pricing.Discount{Flat: decimal.Zero, Percent: d("90")}.String())
	assert.Equal(t, "-20", pricing.Discount{Flat: d("20"), Percent: d("100")}.String())
	assert.Equal(t, "90% -20", pricing.Discount{Flat: d("20"), Percent: d("90")}.String())
}

func TestCompute(t *testing.T) {
	orig := d("60")
	lines := []cart.Line{
		{ProductRef: "a", UnitPrice: d("50"), Quantity: 2, OriginalUnitPrice: &orig},
		line("30", 1),
	}

	totals := pricing.Compute(lines, pricing.Discount{Flat: d("10"), Percent: d("100")})

	assert.Equal(t, "150", totals.OriginalSubtotal.String())
	assert.Equal(t, "130", totals.Subtotal.String())
	assert.Equal(t, "120", totals.Final.String())
	assert.Equal(t, "30", totals.Saved().String())
}
