// Package keypad models the register's on-screen numeric keypad. Key presses
// edit text; they never do arithmetic, so "1" then "0" reads as 10.
package keypad

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fekuna/omnipos-register/internal/money"
	"github.com/shopspring/decimal"
)

// Field names the value a key press is routed to. Callers always pass it
// explicitly; there is no ambient "active field".
type Field int

const (
	FieldReceived Field = iota + 1
	FieldPrice
	FieldQuantity
	FieldDiscountFlat
	FieldDiscountPercent
	FieldExpense
)

var fieldNames = map[Field]string{
	FieldReceived:        "received",
	FieldPrice:           "price",
	FieldQuantity:        "quantity",
	FieldDiscountFlat:    "discount_flat",
	FieldDiscountPercent: "discount_percent",
	FieldExpense:         "expense",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

func ParseField(s string) (Field, error) {
	for f, name := range fieldNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("keypad: unknown field %q", s)
}

func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

type Key string

const (
	KeyClear     Key = "clear"
	KeyBackspace Key = "backspace"
	KeyPoint     Key = "."
)

// IsDigit reports whether k appends digits: "0" to "9" and the "00" key.
func (k Key) IsDigit() bool {
	switch len(k) {
	case 1:
		return k[0] >= '0' && k[0] <= '9'
	case 2:
		return k == "00"
	}
	return false
}

// Buffer accumulates keypad text for one field.
type Buffer struct {
	text string
}

func NewBuffer(initial string) Buffer {
	return Buffer{text: initial}
}

func (b Buffer) Text() string { return b.text }

// Press applies k and reports whether it was recognised.
func (b *Buffer) Press(k Key) bool {
	switch {
	case k.IsDigit():
		b.text += string(k)
	case k == KeyPoint:
		if !strings.Contains(b.text, ".") {
			if b.text == "" {
				b.text = "0"
			}
			b.text += "."
		}
	case k == KeyClear:
		b.text = ""
	case k == KeyBackspace:
		if b.text != "" {
			_, size := utf8.DecodeLastRuneInString(b.text)
			b.text = b.text[:len(b.text)-size]
		}
	default:
		return false
	}
	return true
}

// Set replaces the whole text, as quick-amount presets do.
func (b *Buffer) Set(text string) { b.text = text }

func (b *Buffer) Clear() { b.text = "" }

// Value parses the text; unparsable text counts as zero.
func (b Buffer) Value() decimal.Decimal {
	v, _ := money.ParseNonNegative(b.text)
	return v
}
