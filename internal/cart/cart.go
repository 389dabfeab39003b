// Package cart holds the ordered line items of one register session.
package cart

import (
	"math"

	"github.com/fekuna/omnipos-register/internal/catalog"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/money"
	"github.com/shopspring/decimal"
)

// Line is one row of the cart. Name and UnitPrice are captured when the line
// is added and do not follow later catalog changes.
type Line struct {
	ProductRef        string           `json:"product_ref"`
	Name              string           `json:"name"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	Quantity          int              `json:"quantity"`
	OriginalUnitPrice *decimal.Decimal `json:"original_unit_price,omitempty"`
	TracksStock       bool             `json:"tracks_stock"`
}

func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OriginalAmount prices the line as it was added, before any price edit.
func (l Line) OriginalAmount() decimal.Decimal {
	price := l.UnitPrice
	if l.OriginalUnitPrice != nil {
		price = *l.OriginalUnitPrice
	}
	return price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// lineKey decides merge-on-add. The price goes in as its canonical string so
// 50 and 50.00 compare equal.
type lineKey struct {
	productRef string
	unitPrice  string
}

func keyOf(productRef string, price decimal.Decimal) lineKey {
	return lineKey{productRef: productRef, unitPrice: price.String()}
}

// PriceRequest is returned by Add when the item has no price. The caller
// collects one from the operator and finishes with AddAt.
type PriceRequest struct {
	Item catalog.Item
}

// LineEdit carries the fields to replace; nil fields are left alone.
type LineEdit struct {
	Price    *decimal.Decimal
	Quantity *decimal.Decimal
}

type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add prices item for member and puts it in the cart. A zero effective price
// adds nothing and returns a PriceRequest instead.
func (c *Cart) Add(item catalog.Item, member *model.Member) *PriceRequest {
	price := catalog.EffectivePrice(item, member)
	if price.IsZero() {
		return &PriceRequest{Item: item}
	}
	c.AddAt(item, price)
	return nil
}

// AddAt adds item at an explicit price. Zero is accepted here because the
// operator confirmed it.
func (c *Cart) AddAt(item catalog.Item, price decimal.Decimal) {
	price = money.ClampNonNegative(price)
	key := keyOf(item.ProductID, price)
	for i := range c.lines {
		if keyOf(c.lines[i].ProductRef, c.lines[i].UnitPrice) == key {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductRef:  item.ProductID,
		Name:        item.Name,
		UnitPrice:   price,
		Quantity:    1,
		TracksStock: item.TracksStock(),
	})
}

// Edit replaces price and/or quantity of line i and reports whether i was in
// range.
func (c *Cart) Edit(i int, e LineEdit) bool {
	if i < 0 || i >= len(c.lines) {
		return false
	}
	line := &c.lines[i]
	if e.Quantity != nil {
		line.Quantity = clampQuantity(*e.Quantity)
	}
	if e.Price != nil {
		price := money.ClampNonNegative(*e.Price)
		if line.OriginalUnitPrice == nil && !price.Equal(line.UnitPrice) {
			orig := line.UnitPrice
			line.OriginalUnitPrice = &orig
		}
		line.UnitPrice = price
	}
	return true
}

// MaxQuantity bounds a line quantity so amounts cannot overflow.
const MaxQuantity = math.MaxInt32

var maxQuantity = decimal.NewFromInt(MaxQuantity)

func clampQuantity(q decimal.Decimal) int {
	q = q.Floor()
	if q.LessThan(decimal.NewFromInt(1)) {
		return 1
	}
	if q.GreaterThan(maxQuantity) {
		return MaxQuantity
	}
	return int(q.IntPart())
}

func (c *Cart) Remove(i int) bool {
	if i < 0 || i >= len(c.lines) {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a deep copy; callers may keep it across later mutations.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = l
		if l.OriginalUnitPrice != nil {
			orig := *l.OriginalUnitPrice
			out[i].OriginalUnitPrice = &orig
		}
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}
