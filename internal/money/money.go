// Package money is the single place where operator-entered numeric text
// becomes a number. Every price, quantity, discount and tender value goes
// through ParseNonNegative so clamping rules stay in one spot.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotNumeric = errors.New("money: not a number")

var hundred = decimal.NewFromInt(100)

// ParseNonNegative parses operator input. Empty input is zero, negative
// values clamp to zero. Anything unparsable yields zero and ErrNotNumeric so
// callers may either ignore it or report it.
func ParseNonNegative(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, text)
	}
	return ClampNonNegative(d), nil
}

// MustParse is ParseNonNegative for trusted literals (config, tests).
func MustParse(text string) decimal.Decimal {
	d, err := ParseNonNegative(text)
	if err != nil {
		panic(err)
	}
	return d
}

func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Round rounds to whole currency units, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// Percent returns d × percent / 100.
func Percent(d, percent decimal.Decimal) decimal.Decimal {
	return d.Mul(percent).Div(hundred)
}
