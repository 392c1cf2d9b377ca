// Package format renders market values for display.
//
// Every function here is display-only and lossy. The returned strings must
// never be parsed back into numbers for arithmetic.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Magnitude thresholds for compact market cap rendering.
const (
	million  = 1_000_000
	thousand = 1_000
)

// Price bucket thresholds.
const (
	priceDollar  = 1
	priceCent    = 0.01
	priceSubCent = 0.0001
)

// subCentDecimals is the fixed expansion used to count leading zeros.
const subCentDecimals = 10

// subCentDigits is the number of significant digits kept after the zero run.
const subCentDigits = 4

// FormatMarketCap renders a market cap as $X.XXM, $X.XK or $X.
// Negative and non-finite input renders as $0.
func FormatMarketCap(value float64) string {
	value = clampNonNegative(value)

	switch {
	case value >= million:
		return "$" + fixed(value/million, 2) + "M"
	case value >= thousand:
		return "$" + fixed(value/thousand, 1) + "K"
	default:
		return "$" + fixed(value, 0)
	}
}

// FormatPrice renders a unit price. Prices under 0.0001 use the compact
// leading-zero notation $0.0(<zeros>)<digits>, e.g. 0.00001234 → $0.0(4)1234.
func FormatPrice(value float64) string {
	value = clampNonNegative(value)

	switch {
	case value == 0:
		return "$0"
	case value >= priceDollar:
		return "$" + fixed(value, 2)
	case value >= priceCent:
		return "$" + fixed(value, 4)
	case value >= priceSubCent:
		return "$" + fixed(value, 6)
	default:
		return subCent(value)
	}
}

// subCent renders the compact notation from a 10-decimal expansion.
func subCent(value float64) string {
	str := fixed(value, subCentDecimals)
	frac := strings.TrimPrefix(str, "0.")
	if len(frac) != subCentDecimals {
		return "$" + fixed(value, 8)
	}

	// The zero run leaves at least one digit behind.
	zeros := 0
	for zeros < len(frac)-1 && frac[zeros] == '0' {
		zeros++
	}

	digits := frac[zeros:]
	if len(digits) > subCentDigits {
		digits = digits[:subCentDigits]
	}

	var sb strings.Builder
	sb.WriteString("$0.0(")
	sb.WriteString(strconv.Itoa(zeros))
	sb.WriteString(")")
	sb.WriteString(digits)
	return sb.String()
}

// FormatPercentChange renders a signed percentage with two decimals (+12.34%).
func FormatPercentChange(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		pct = 0
	}
	s := fixed(pct, 2)
	if pct >= 0 {
		s = "+" + s
	}
	return s + "%"
}

// FormatSOL renders a SOL amount with at most three decimals and no
// trailing zeros (1.8 SOL, 0.025 SOL).
func FormatSOL(amount float64) string {
	amount = clampNonNegative(amount)
	return decimal.NewFromFloat(amount).Round(3).String() + " SOL"
}

// FormatCount renders an integer with thousands separators (12,345).
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// fixed renders value with exactly places decimals, rounding half away
// from zero on the shortest decimal representation of the float. This can
// differ from rounding the exact binary value: 1.005 renders as 1.01 here,
// while the binary double is just below 1.005 and would give 1.00.
func fixed(value float64, places int32) string {
	return decimal.NewFromFloat(value).StringFixed(places)
}

func clampNonNegative(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}
