package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmountToMinorUnits(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{name: "comma separator", raw: "19,90", want: 1990},
		{name: "dot separator", raw: "19.90", want: 1990},
		{name: "integer", raw: "25", want: 2500},
		{name: "two decimals", raw: "25.00", want: 2500},
		{name: "euro symbol", raw: "€ 19,90", want: 1990},
		{name: "currency code suffix", raw: "19.90 EUR", want: 1990},
		{name: "thousands with comma decimal", raw: "1.234,56", want: 123456},
		{name: "thousands with dot decimal", raw: "1,234.56", want: 123456},
		{name: "rounds half up", raw: "0.125", want: 13},
		{name: "rounds instead of truncating", raw: "19.999", want: 2000},
		{name: "float trap", raw: "1.005", want: 101},
		{name: "leading dot", raw: ".5", want: 50},
		{name: "euro word prefix", raw: "euro 10", want: 1000},
		{name: "euro word suffix", raw: "10,50 Euro", want: 1050},
		{name: "largest accepted", raw: "999999,99", want: 99999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseAmount(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ToMinorUnits(d))
		})
	}
}

func TestParseAmountRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "empty", raw: "", want: ErrEmptyAmount},
		{name: "only symbol", raw: " € ", want: ErrEmptyAmount},
		{name: "words", raw: "dieci euro", want: ErrInvalidAmount},
		{name: "negative", raw: "-5", want: ErrInvalidAmount},
		{name: "exponent", raw: "1e3", want: ErrInvalidAmount},
		{name: "two decimal points", raw: "1.2.3", want: ErrInvalidAmount},
		{name: "zero", raw: "0,00", want: ErrAmountNotPositive},
		{name: "below one cent", raw: "0.004", want: ErrAmountNotPositive},
		{name: "above checkout limit", raw: "1000000", want: ErrInvalidAmount},
		{name: "wraps int64 to one cent", raw: "184467440737095516,17", want: ErrInvalidAmount},
		{name: "far beyond int64", raw: "1000000000000000000000", want: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAmount(tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "19.90", FormatMinor(1990))
	assert.Equal(t, "25.00", FormatMinor(2500))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "0.00", FormatMinor(0))
}
