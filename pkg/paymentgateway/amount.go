package paymentgateway

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// ToMinorUnits converts a major-unit amount into the integer the gateway transmits.
func ToMinorUnits(amount decimal.Decimal, multiplier int64) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	minor := amount.Mul(decimal.NewFromInt(multiplier))
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s has more precision than the currency allows", ErrInvalidAmount, amount)
	}

	return minor.IntPart(), nil
}

var minorUnitsPattern = regexp.MustCompile(`^[0-9]+$`)

// FromMinorUnits parses the gateway's amount field, which is always a plain non-negative
// integer. Signs, decimal points and exponents are rejected.
func FromMinorUnits(minor string, multiplier int64) (decimal.Decimal, error) {
	if !minorUnitsPattern.MatchString(minor) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not an integer amount in minor units", ErrInvalidAmount, minor)
	}

	value, err := decimal.NewFromString(minor)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	return value.Div(decimal.NewFromInt(multiplier)), nil
}
