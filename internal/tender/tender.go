// Package tender tracks the amount the customer hands over and decides
// whether the sale can be closed.
package tender

import (
	"strconv"

	"github.com/fekuna/omnipos-register/internal/keypad"
	"github.com/fekuna/omnipos-register/internal/money"
	"github.com/shopspring/decimal"
)

// ChangeDue is received minus final. Empty or unparsable text counts as zero,
// so the result is negative whenever something is still owed.
func ChangeDue(receivedText string, final decimal.Decimal) decimal.Decimal {
	received, _ := money.ParseNonNegative(receivedText)
	return received.Sub(final)
}

func CanCheckout(lineCount int, change decimal.Decimal) bool {
	return lineCount > 0 && !change.IsNegative()
}

// Tender is the received-amount accumulator.
type Tender struct {
	buf keypad.Buffer
}

func (t *Tender) Press(k keypad.Key) bool {
	return t.buf.Press(k)
}

// Preset replaces the text with a quick amount instead of appending to it.
func (t *Tender) Preset(amount int64) {
	t.buf.Set(strconv.FormatInt(amount, 10))
}

func (t *Tender) Reset() {
	t.buf.Clear()
}

func (t Tender) Text() string {
	return t.buf.Text()
}

func (t Tender) Received() decimal.Decimal {
	return t.buf.Value()
}

func (t Tender) ChangeDue(final decimal.Decimal) decimal.Decimal {
	return ChangeDue(t.buf.Text(), final)
}
