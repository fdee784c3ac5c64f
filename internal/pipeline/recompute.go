package pipeline

import (
	"github.com/shopspring/decimal"

	"salesmini/internal"
)

// RecomputeLinePrices sets the tax-excluded line price to unit price times
// count on every item where both are numeric. Other items keep their price.
func RecomputeLinePrices(items []internal.Item) []internal.Item {
	out := make([]internal.Item, len(items))
	for i, item := range items {
		if item.TaxExcludedUnitPrice.Valid && item.Count.Valid {
			item.TaxExcludedPrice = decimal.NewNullDecimal(item.TaxExcludedUnitPrice.Decimal.Mul(item.Count.Decimal))
		}
		out[i] = item
	}
	return out
}

// RecomputeTotals sums tax-excluded line prices (missing counts as zero),
// then tax = round(subtotal * rate) to whole yen, half away from zero.
func RecomputeTotals(items []internal.Item, taxRate decimal.Decimal) internal.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.TaxExcludedPrice.Valid {
			subtotal = subtotal.Add(item.TaxExcludedPrice.Decimal)
		}
	}
	tax := subtotal.Mul(taxRate).Round(0)
	return internal.Totals{SubTotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// ApplyTotals writes recomputed totals onto the order header.
func ApplyTotals(o *internal.Order, t internal.Totals) {
	o.SubTotalPrice = decimal.NewNullDecimal(t.SubTotal)
	o.TaxAmount = decimal.NewNullDecimal(t.Tax)
	o.TotalPrice = decimal.NewNullDecimal(t.Total)
}
