package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatPriceEUR formats a price the way it is printed on the menu.
// Example: 1234.5 -> "1 234,50 €"
func FormatPriceEUR(amount float64) string {
	negative := amount < 0
	cents := int64(math.Round(math.Abs(amount) * 100))
	integer := cents / 100
	decimal := cents % 100

	// Pisahkan ribuan dengan spasi
	digits := fmt.Sprintf("%d", integer)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := fmt.Sprintf("%s,%02d €", strings.Join(groups, " "), decimal)
	if negative {
		return "-" + out
	}
	return out
}
