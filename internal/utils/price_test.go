// internal/utils/price_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "LKR 15,000,000.00", FormatPrice(15000000))
	assert.Equal(t, "LKR 4,500,000.00", FormatPrice(4500000))
	assert.Equal(t, "LKR 950.50", FormatPrice(950.5))
	assert.Equal(t, "LKR 0.00", FormatPrice(0))
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"LKR 15,000,000.00", 15000000},
		{"15,000,000.00", 15000000},
		{"  LKR 950.50 ", 950.5},
		{"25000000", 25000000},
	}
	for _, tc := range cases {
		got, err := ParsePrice(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func TestParsePriceRejectsGarbage(t *testing.T) {
	_, err := ParsePrice("LKR abc")
	assert.Error(t, err)
}

func TestParsePriceRoundTrip(t *testing.T) {
	for _, price := range []float64{1, 12345.67, 15000000, 999999999.99} {
		got, err := ParsePrice(FormatPrice(price))
		require.NoError(t, err)
		assert.Equal(t, price, got)
	}
}
