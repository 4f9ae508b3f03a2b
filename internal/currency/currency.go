// Package currency formats cost amounts for display.
package currency

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

const DefaultCode = "INR"

// humanize.FormatFloat goes through int64; past this magnitude floats carry
// no fractional part and are formatted with CommafWithDigits instead.
const largeMagnitude = 1e18

var symbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"COP": "$",
}

// Symbol returns the display symbol for an ISO currency code, falling back to
// the code itself followed by a space.
func Symbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if s, ok := symbols[code]; ok {
		return s
	}
	if code == "" {
		return symbols[DefaultCode]
	}
	return code + " "
}

// Format renders an amount with thousands separators and two decimals,
// e.g. ₹29,900.00 or -₹1,234.50.
func Format(code string, amount float64) string {
	return withSymbol(Symbol(code), FormatNumber(amount))
}

// FormatWhole renders an amount rounded to whole units, e.g. ₹29,900.
func FormatWhole(code string, amount float64) string {
	if math.Abs(amount) >= largeMagnitude {
		return withSymbol(Symbol(code), humanize.CommafWithDigits(amount, 0))
	}
	return withSymbol(Symbol(code), humanize.FormatFloat("#,###.", amount))
}

// FormatNumber renders v with thousands separators and two decimals and no
// symbol, e.g. 1,234.50.
func FormatNumber(v float64) string {
	if math.Abs(v) >= largeMagnitude {
		return humanize.CommafWithDigits(v, 0) + ".00"
	}
	return humanize.FormatFloat("#,###.##", v)
}

// Known reports whether code has a dedicated symbol.
func Known(code string) bool {
	_, ok := symbols[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

func withSymbol(symbol, formatted string) string {
	if rest, ok := strings.CutPrefix(formatted, "-"); ok {
		return "-" + symbol + rest
	}
	return symbol + formatted
}
