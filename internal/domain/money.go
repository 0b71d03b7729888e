package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of fractional digits balances are reported with.
const CurrencyPlaces = 2

// RoundCurrency rounds d to CurrencyPlaces, half away from zero.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// ValidateAmount rejects zero and negative amounts and amounts finer than
// CurrencyPlaces.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero", ErrInvalidAmount, d.String())
	}
	return ValidatePrecision(d)
}

// ValidatePrecision rejects values with more than CurrencyPlaces significant
// fractional digits. Trailing zeros are fine.
func ValidatePrecision(d decimal.Decimal) error {
	if !d.Equal(RoundCurrency(d)) {
		return fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d.String(), CurrencyPlaces)
	}
	return nil
}

// ParseBalance parses a signed decimal value, used for opening balances and limits.
func ParseBalance(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: could not parse '%s'", ErrInvalidAmount, s)
	}
	return d, nil
}
