package util

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Yen renders "1,234 円", or "-" when the amount is missing.
func Yen(v decimal.NullDecimal) string {
	if !v.Valid {
		return "-"
	}
	return humanize.Comma(v.Decimal.Round(0).IntPart()) + " 円"
}
