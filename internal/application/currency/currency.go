// Package currency formats whole-unit amounts for display.
package currency

import "strconv"

// Format renders an amount with thousands separators ("1,234,567").
// Amounts are whole currency units; there is no fractional part.
func Format(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.Itoa(amount)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
