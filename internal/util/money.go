package util

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	moneySuffix   = regexp.MustCompile(`(円|¥|￥|yen|JPY)$`)
	thousandsSeps = strings.NewReplacer(",", "", "，", "", " ", "", "\u00a0", "")
)

// ParseMoney reads exported amounts such as "1,234円" or "¥ 980".
// Unparseable input yields an invalid NullDecimal, never an error.
func ParseMoney(input string) decimal.NullDecimal {
	s := strings.TrimSpace(input)
	if s == "" {
		return decimal.NullDecimal{}
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "¥"), "￥")
	s = thousandsSeps.Replace(s)
	s = moneySuffix.ReplaceAllString(s, "")
	s = normalizeDigits(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// normalizeDigits folds full-width digits, sign and point to ASCII.
func normalizeDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '０' && r <= '９':
			b.WriteRune('0' + (r - '０'))
		case r == '．':
			b.WriteRune('.')
		case r == '－' || r == '−':
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
