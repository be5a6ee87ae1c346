// internal/utils/price.go
package utils

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Prices are stored as plain numbers and rendered in Sri Lankan rupees with
// grouping separators, the way the dashboard always displayed them.

var pricePrinter = message.NewPrinter(language.English)

func FormatPrice(price float64) string {
	return "LKR " + pricePrinter.Sprintf("%.2f", price)
}

// ParsePrice inverts FormatPrice: it accepts the rendered form with or
// without the currency prefix and grouping separators.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "LKR")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}
