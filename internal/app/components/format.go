package components

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	printer = message.NewPrinter(language.AmericanEnglish)
	titler  = cases.Title(language.English)
)

// Amount formats a money amount as "$1,234.56".
func Amount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + "$" + printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Count formats an integer with thousands separators.
func Count(n int64) string {
	return printer.Sprint(number.Decimal(n))
}

// CategoryLabel turns "shopping_net" into "Shopping (online)".
func CategoryLabel(category string) string {
	if category == "" {
		return "Uncategorised"
	}
	parts := strings.Split(strings.ToLower(category), "_")
	suffix := ""
	switch parts[len(parts)-1] {
	case "pos":
		suffix, parts = " (in store)", parts[:len(parts)-1]
	case "net":
		suffix, parts = " (online)", parts[:len(parts)-1]
	}
	return titler.String(strings.Join(parts, " ")) + suffix
}

// Label turns an enum such as "UNDER_REVIEW" into "Under Review".
func Label(s string) string {
	return titler.String(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
}

// Timestamp formats t for tables; the zero time renders as a dash.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02 Jan 2006 15:04:05")
}
