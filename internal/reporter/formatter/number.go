package formatter

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	units    = []string{"K", "M", "B", "T"}
	thousand = decimal.NewFromInt(1000)
)

// Abbreviate 以 1000 为进制加 K/M/B/T 后缀，例如 1234567 -> 1.2M
func Abbreviate(d decimal.Decimal, decimals int32) string {
	if d.IsZero() {
		return "0"
	}

	scaled := d.Abs()
	unit := -1
	for scaled.GreaterThanOrEqual(thousand) && unit < len(units)-1 {
		scaled = scaled.Div(thousand)
		unit++
	}

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(scaled.StringFixed(decimals))
	if unit >= 0 {
		b.WriteString(units[unit])
	}
	return b.String()
}

// GroupThousands 用 "." 分隔千位，例如 1234567 -> 1.234.567
func GroupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	b.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func optional(d *decimal.Decimal) string {
	if d == nil {
		return "N/A"
	}
	return d.String()
}

func optionalPercent(d *decimal.Decimal) string {
	if d == nil {
		return "N/A"
	}
	return d.String() + "%"
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
