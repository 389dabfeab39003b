package cart_test

import (
	"testing"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/catalog"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func priced(id, name, price string) catalog.Item {
	return catalog.Item{ProductID: id, Name: name, SuggestedPrice: dp(price), Listed: true}
}

func TestAdd_MergesSameProductAndPrice(t *testing.T) {
	c := cart.New()
	tea := priced("p1", "Tea", "50")

	assert.Nil(t, c.Add(tea, nil))
	assert.Nil(t, c.Add(tea, nil))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "100", lines[0].Amount().String())
}

func TestAdd_MergeTreatsEqualDecimalsAsSamePrice(t *testing.T) {
	c := cart.New()
	item := catalog.Item{ProductID: "p1", Name: "Tea"}

	c.AddAt(item, d("50"))
	c.AddAt(item, d("50.00"))

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestAddAt_DifferentPricesStayDistinct(t *testing.T) {
	c := cart.New()
	item := catalog.Item{ProductID: "p1", Name: "Open item"}

	c.AddAt(item, d("30"))
	c.AddAt(item, d("45"))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "30", lines[0].UnitPrice.String())
	assert.Equal(t, "45", lines[1].UnitPrice.String())
}

func TestAdd_ZeroPriceRequestsManualEntry(t *testing.T) {
	c := cart.New()
	item := catalog.Item{ProductID: "p9", Name: "Misc"}

	req := c.Add(item, nil)

	require.NotNil(t, req)
	assert.Equal(t, "p9", req.Item.ProductID)
	assert.Equal(t, 0, c.Len())

	c.AddAt(req.Item, decimal.Zero)
	require.Equal(t, 1, c.Len())
	assert.True(t, c.Lines()[0].UnitPrice.IsZero())
}

func TestAdd_UsesMemberPrice(t *testing.T) {
	c := cart.New()
	item := catalog.Item{ProductID: "p1", Name: "Tea", SuggestedPrice: dp("50"), MemberPrice: dp("40")}

	c.Add(item, &model.Member{Name: "Amy"})
	c.Add(item, nil)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "40", lines[0].UnitPrice.String())
	assert.Equal(t, "50", lines[1].UnitPrice.String())
}

func TestAdd_CapturesStockTracking(t *testing.T) {
	c := cart.New()
	stock := 3
	item := priced("p1", "Tea", "50")
	item.Stock = &stock

	c.Add(item, nil)
	c.Add(priced("p2", "Gift wrap", "5"), nil)

	lines := c.Lines()
	assert.True(t, lines[0].TracksStock)
	assert.False(t, lines[1].TracksStock)
}

func TestEdit_Quantity(t *testing.T) {
	tests := []struct {
		name string
		qty  string
		want int
	}{
		{name: "zero_clamps_to_one", qty: "0", want: 1},
		{name: "negative_clamps_to_one", qty: "-4", want: 1},
		{name: "fraction_floors", qty: "2.9", want: 2},
		{name: "below_one_fraction", qty: "0.5", want: 1},
		{name: "plain", qty: "7", want: 7},
		{name: "huge_caps_at_max", qty: "18446744073709551615", want: cart.MaxQuantity},
		{name: "1e20_caps_at_max", qty: "100000000000000000000", want: cart.MaxQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cart.New()
			c.Add(priced("p1", "Tea", "50"), nil)

			ok := c.Edit(0, cart.LineEdit{Quantity: dp(tt.qty)})

			assert.True(t, ok)
			assert.Equal(t, tt.want, c.Lines()[0].Quantity)
		})
	}
}

func TestEdit_HugeQuantityKeepsAmountPositive(t *testing.T) {
	c := cart.New()
	c.Add(priced("p1", "Tea", "10"), nil)

	c.Edit(0, cart.LineEdit{Quantity: dp("18446744073709551615")})

	line := c.Lines()[0]
	assert.GreaterOrEqual(t, line.Quantity, 1)
	assert.True(t, line.Amount().IsPositive())
	assert.True(t, line.Amount().Equal(d("10").Mul(decimal.NewFromInt(cart.MaxQuantity))))
}

func TestEdit_PriceClampsAndKeepsOriginal(t *testing.T) {
	c := cart.New()
	c.Add(priced("p1", "Tea", "50"), nil)

	c.Edit(0, cart.LineEdit{Price: dp("45")})
	c.Edit(0, cart.LineEdit{Price: dp("-3")})

	line := c.Lines()[0]
	assert.True(t, line.UnitPrice.IsZero())
	require.NotNil(t, line.OriginalUnitPrice)
	assert.Equal(t, "50", line.OriginalUnitPrice.String())
	assert.Equal(t, "50", line.OriginalAmount().String())
}

func TestEdit_SamePriceLeavesNoOriginal(t *testing.T) {
	c := cart.New()
	c.Add(priced("p1", "Tea", "50"), nil)

	c.Edit(0, cart.LineEdit{Price: dp("50")})

	assert.Nil(t, c.Lines()[0].OriginalUnitPrice)
}

func TestEditAndRemove_OutOfRangeAreNoOps(t *testing.T) {
	c := cart.New()
	c.Add(priced("p1", "Tea", "50"), nil)
	before := c.Lines()

	assert.False(t, c.Edit(1, cart.LineEdit{Quantity: dp("3")}))
	assert.False(t, c.Edit(-1, cart.LineEdit{Quantity: dp("3")}))
	assert.False(t, c.Remove(5))
	assert.False(t, c.Remove(-1))

	assert.Equal(t, before, c.Lines())
}

func TestRemove_KeepsOrder(t *testing.T) {
	c := cart.New()
	c.Add(priced("p1", "A", "1"), nil)
	c.Add(priced("p2", "B", "2"), nil)
	c.Add(priced("p3", "C", "3"), nil)

	assert.True(t, c.Remove(1))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].Name)
	assert.Equal(t, "C", lines[1].Name)
}

func TestClear_Idempotent(t *testing.T) {
	c := cart.New()
	c.Add(priced("p1", "Tea", "50"), nil)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Lines())
}

func TestLines_ReturnsCopy(t *testing.T) {
	c := cart.New()
	c.Add(priced("p1", "Tea", "50"), nil)
	c.Edit(0, cart.LineEdit{Price: dp("40")})

	lines := c.Lines()
	lines[0].Quantity = 99
	*lines[0].OriginalUnitPrice = d("1")

	fresh := c.Lines()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, "50", fresh[0].OriginalUnitPrice.String())
}

func TestLine_CapturedNameSurvivesCatalogChange(t *testing.T) {
	c := cart.New()
	item := priced("p1", "Tea", "50")
	c.Add(item, nil)

	item.Name = "Renamed"
	item.SuggestedPrice = dp("99")

	line := c.Lines()[0]
	assert.Equal(t, "Tea", line.Name)
	assert.Equal(t, "50", line.UnitPrice.String())
}
