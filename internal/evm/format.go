package evm

import (
	"math"
	"strconv"
	"strings"
)

// FormatMoney renders an accounting string like $1,234,567.89. Non-finite
// input collapses to $0.00 so a formatting path can never surface NaN.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}

	negative := v < 0
	raw := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)

	parts := strings.SplitN(raw, ".", 2)
	whole := parts[0]

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	out := "$" + grouped.String() + "." + parts[1]
	if negative {
		return "-" + out
	}
	return out
}

// FormatIndex renders SPI/CPI the way they are persisted and displayed:
// fixed two decimals.
func FormatIndex(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 1.00
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Round2 rounds to two decimals. The synchronizer rounds before persisting
// so repeated runs over an unchanged ledger write identical values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
