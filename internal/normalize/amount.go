// Package normalize turns free-text form input into the canonical values the
// payment provider and the sales log expect.
package normalize

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyAmount       = errors.New("amount is empty")
	ErrInvalidAmount     = errors.New("amount is not a number")
	ErrAmountNotPositive = errors.New("amount must be positive")

	currencyCode = regexp.MustCompile(`(?i)^(euro|eur|usd|gbp|chf)|(euro|eur|usd|gbp|chf)$`)
	plainNumber  = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

	// MaxMinorUnits is the largest amount, in cents, a checkout session accepts.
	MaxMinorUnits = decimal.NewFromInt(99999999)
)

// ParseAmount accepts "19,90", "19.90", "€ 19,90", "EUR 1.234,50" and similar.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, raw)
	s = currencyCode.ReplaceAllString(s, "")
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	s = normalizeSeparators(s)
	if !plainNumber.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	minor := d.Shift(2).Round(0)
	if !minor.IsPositive() {
		return decimal.Zero, ErrAmountNotPositive
	}
	if minor.GreaterThan(MaxMinorUnits) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// normalizeSeparators keeps the last of '.' or ',' as the decimal point and drops
// the other as a thousands separator.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	case lastDot >= 0 && lastComma >= 0:
		return strings.ReplaceAll(s, ",", "")
	default:
		return strings.Replace(s, ",", ".", 1)
	}
}

// ToMinorUnits converts display units to cents, rounding half away from zero.
// d must come from ParseAmount, which keeps it within MaxMinorUnits.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FormatMinor renders cents as a display amount with two decimals.
func FormatMinor(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
