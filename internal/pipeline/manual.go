package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"

	"salesmini/internal"
	"salesmini/internal/orderkey"
	"salesmini/internal/util"
)

// ManualLine is one hand-entered item row.
type ManualLine struct {
	Name      string
	Num       string
	Count     string
	UnitPrice string
	Unit      string
}

type ManualOrder struct {
	CompanyName string
	PersonName  string
	Lines       []ManualLine
}

// BuildManualOrder turns a hand-entry form into an order with its items.
// Blank-named lines are dropped. The id is derived from company, person and
// subtotal, so resubmitting the same form yields the same order.
func BuildManualOrder(in ManualOrder, taxRate decimal.Decimal) (internal.Order, []internal.Item) {
	items := make([]internal.Item, 0, len(in.Lines))
	for _, line := range in.Lines {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			continue
		}
		count := util.ParseMoney(line.Count)
		price := util.ParseMoney(line.UnitPrice)
		linePrice := zeroIfMissing(price).Mul(zeroIfMissing(count))
		items = append(items, internal.Item{
			LineNo:               len(items) + 1,
			Name:                 name,
			Num:                  util.OptString(strings.TrimSpace(line.Num)),
			QuantityUnit:         util.OptString(strings.TrimSpace(line.Unit)),
			Count:                count,
			TaxExcludedUnitPrice: price,
			TaxExcludedPrice:     decimal.NewNullDecimal(linePrice),
		})
	}

	totals := RecomputeTotals(items, taxRate)
	company := strings.TrimSpace(in.CompanyName)
	person := strings.TrimSpace(in.PersonName)
	subtotal := decimal.NewNullDecimal(totals.SubTotal)
	id := orderkey.ForFields(orderkey.Fields{
		CompanyName: &company,
		PersonName:  &person,
		SubTotal:    &subtotal,
	})

	order := internal.Order{
		OrderID:     id,
		CompanyName: util.OptString(company),
		PersonName:  util.OptString(person),
	}
	ApplyTotals(&order, totals)
	for i := range items {
		items[i].OrderID = id
	}
	return order, items
}

func zeroIfMissing(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
