// Package labels maps internal column names to the Japanese display labels
// of the order screens. Core logic never depends on it.
package labels

import "salesmini/internal"

var japanese = map[string]string{
	internal.ColOrderID:                  "注文ID",
	internal.ColOrdererCompanyName:       "得意先名",
	internal.ColOrdererPersonName:        "担当者",
	internal.ColSubTotalPrice:            "小計",
	internal.ColTaxAmount:                "消費税",
	internal.ColTotalPrice:               "合計",
	internal.ColItemName:                 "商品名",
	internal.ColItemNum:                  "品番",
	internal.ColItemCount:                "数量",
	internal.ColItemQuantityUnit:         "単位",
	internal.ColItemTaxExcludedUnitPrice: "単価(税抜)",
	internal.ColItemTaxExcludedPrice:     "金額(税抜)",
	internal.ColItemTaxIncludedUnitPrice: "単価(税込)",
	internal.ColItemTaxIncludedPrice:     "金額(税込)",
	internal.ColItemTaxAmount:            "税額",
}

// Label returns the display label, or the column name itself.
func Label(column string) string {
	if l, ok := japanese[column]; ok {
		return l
	}
	return column
}

func Labels(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = Label(c)
	}
	return out
}

// Column reverses Label, so edited sheets may use either header form.
func Column(label string) string {
	for col, l := range japanese {
		if l == label {
			return col
		}
	}
	return label
}
