package tools

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var hundred = decimal.NewFromInt(100)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// cents rounds to two decimals for the JSON payload.
func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// percent returns part/whole*100 rounded to one decimal, or zero for an empty whole.
func percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).Round(1).InexactFloat64()
}

// FormatMoney renders $1,234.56 (negative values as -$1,234.56).
func FormatMoney(d decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	s := p.Sprintf("$%.2f", d.Abs().Round(2).InexactFloat64())
	if d.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}
