package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators and two decimals, e.g. 1,234.50.
// The value never passes through float64.
func FormatAmount(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	fixed := rounded.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	out := groupDigits(whole) + "." + frac
	if rounded.IsNegative() {
		return "-" + out
	}
	return out
}

func groupDigits(whole string) string {
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return amountPrinter.Sprintf("%d", n)
	}

	// beyond int64
	var b strings.Builder
	lead := len(whole) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(whole[:lead])
	for i := lead; i < len(whole); i += 3 {
		b.WriteByte(',')
		b.WriteString(whole[i : i+3])
	}
	return b.String()
}

// FormatPrice prefixes the formatted amount with a currency label, e.g. "Rs 1,234.50".
func FormatPrice(currency string, amount decimal.Decimal) string {
	if currency == "" {
		return FormatAmount(amount)
	}
	return fmt.Sprintf("%s %s", currency, FormatAmount(amount))
}
