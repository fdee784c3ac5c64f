package pipeline

import (
	"github.com/shopspring/decimal"

	"salesmini/internal"
)

type Summary struct {
	OrderCount  int
	TotalAmount decimal.Decimal
	TopCompany  string
	TopCompanyN int
}

// Summarize aggregates the order list. Missing totals count as zero; ties
// for the most frequent company go to the one seen first.
func Summarize(orders []internal.Order) Summary {
	s := Summary{OrderCount: len(orders), TotalAmount: decimal.Zero}
	counts := map[string]int{}
	seen := []string{}
	for _, o := range orders {
		if o.TotalPrice.Valid {
			s.TotalAmount = s.TotalAmount.Add(o.TotalPrice.Decimal)
		}
		if o.CompanyName == nil {
			continue
		}
		if _, ok := counts[*o.CompanyName]; !ok {
			seen = append(seen, *o.CompanyName)
		}
		counts[*o.CompanyName]++
	}
	for _, name := range seen {
		if counts[name] > s.TopCompanyN {
			s.TopCompany = name
			s.TopCompanyN = counts[name]
		}
	}
	return s
}
