package pipeline

import (
	"strconv"

	"github.com/shopspring/decimal"

	"salesmini/internal"
	"salesmini/internal/labels"
	"salesmini/internal/orderkey"
	"salesmini/internal/util"
)

// NormalizeResult holds the Orders and Items tables of one batch.
// ParseWarnings counts non-blank money cells that could not be parsed.
type NormalizeResult struct {
	Orders        []internal.Order
	Items         []internal.Item
	ParseWarnings int
}

type keptRow struct {
	pos int
	row internal.RawRow
}

// Normalize rebuilds orders and line items from a sheet whose header fields
// are printed once per order block. It never mutates table.
func Normalize(table internal.RawTable) (NormalizeResult, error) {
	if !table.HasColumn(internal.ColItemName) {
		return NormalizeResult{}, &internal.SchemaError{Column: internal.ColItemName}
	}

	present := make(map[string]bool, len(table.Columns))
	for _, c := range table.Columns {
		present[c] = true
	}

	filled := ForwardFill(table.Rows, presentOf(internal.HeaderColumns, present))

	kept := make([]keptRow, 0, len(filled))
	for pos, row := range filled {
		if util.IsBlank(row[internal.ColItemName]) {
			continue
		}
		kept = append(kept, keptRow{pos: pos, row: row})
	}

	warnings := 0
	for _, col := range presentOf(internal.MoneyColumns, present) {
		for i := range kept {
			raw := kept[i].row[col]
			v := util.ParseMoney(raw)
			if !v.Valid {
				if !util.IsBlank(raw) {
					warnings++
				}
				kept[i].row[col] = ""
				continue
			}
			kept[i].row[col] = v.Decimal.String()
		}
	}

	// A batch without any header value would collapse into one order, so
	// each row keys on its source position instead.
	keys := make([]string, len(kept))
	headerless := true
	for i, k := range kept {
		f := orderkey.FieldsOf(k.row, present)
		keys[i] = f.Key()
		if !f.Blank() {
			headerless = false
		}
	}
	if headerless {
		for i, k := range kept {
			keys[i] = strconv.Itoa(k.pos)
		}
	}

	items := make([]internal.Item, 0, len(kept))
	orders := make([]internal.Order, 0)
	orderIdx := map[string]int{}
	lines := map[string]int{}
	for i, k := range kept {
		id := orderkey.DeriveOrderID(keys[i])
		lines[id]++
		items = append(items, itemFromRow(id, lines[id], k.row))

		idx, ok := orderIdx[id]
		if !ok {
			orderIdx[id] = len(orders)
			orders = append(orders, internal.Order{OrderID: id})
			idx = len(orders) - 1
		}
		mergeOrderRow(&orders[idx], k.row, present)
	}

	return NormalizeResult{Orders: orders, Items: items, ParseWarnings: warnings}, nil
}

// ForwardFill returns a new row sequence where each listed column carries
// the last non-blank value seen above it.
func ForwardFill(rows []internal.RawRow, columns []string) []internal.RawRow {
	out := make([]internal.RawRow, len(rows))
	last := make(map[string]string, len(columns))
	for i, row := range rows {
		next := make(internal.RawRow, len(row)+len(columns))
		for k, v := range row {
			next[k] = v
		}
		for _, col := range columns {
			if v := row[col]; !util.IsBlank(v) {
				last[col] = v
				continue
			}
			if v, ok := last[col]; ok {
				next[col] = v
			}
		}
		out[i] = next
	}
	return out
}

func presentOf(columns []string, present map[string]bool) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}

func itemFromRow(orderID string, lineNo int, row internal.RawRow) internal.Item {
	return internal.Item{
		OrderID:      orderID,
		LineNo:       lineNo,
		Name:         row[internal.ColItemName],
		Num:          util.OptString(row[internal.ColItemNum]),
		Date:         util.OptString(row[internal.ColItemDate]),
		QuantityUnit: util.OptString(row[internal.ColItemQuantityUnit]),
		TaxInfo:      util.OptString(row[internal.ColItemTaxInfo]),
		Etc:          util.OptString(row[internal.ColItemEtc]),

		Count:                util.ParseMoney(row[internal.ColItemCount]),
		Discount:             util.ParseMoney(row[internal.ColItemDiscount]),
		TaxExcludedUnitPrice: util.ParseMoney(row[internal.ColItemTaxExcludedUnitPrice]),
		TaxExcludedPrice:     util.ParseMoney(row[internal.ColItemTaxExcludedPrice]),
		TaxIncludedUnitPrice: util.ParseMoney(row[internal.ColItemTaxIncludedUnitPrice]),
		TaxIncludedPrice:     util.ParseMoney(row[internal.ColItemTaxIncludedPrice]),
		TaxAmount:            util.ParseMoney(row[internal.ColItemTaxAmount]),
	}
}

// mergeOrderRow folds one item row into its order: text fields keep the
// first non-blank value, totals keep the maximum.
func mergeOrderRow(o *internal.Order, row internal.RawRow, present map[string]bool) {
	first := func(dst **string, col string) {
		if *dst != nil || !present[col] {
			return
		}
		*dst = util.OptString(row[col])
	}
	first(&o.CompanyName, internal.ColOrdererCompanyName)
	first(&o.Department, internal.ColOrdererDepartment)
	first(&o.PersonName, internal.ColOrdererPersonName)
	first(&o.PostalCode, internal.ColOrdererPostalCode)
	first(&o.Address, internal.ColOrdererAddress)
	first(&o.Tel, internal.ColOrdererTel)
	first(&o.Fax, internal.ColOrdererFax)
	first(&o.Email, internal.ColOrdererEmail)

	maxOf := func(dst *decimal.NullDecimal, col string) {
		if !present[col] {
			return
		}
		v := util.ParseMoney(row[col])
		if !v.Valid {
			return
		}
		if !dst.Valid || v.Decimal.GreaterThan(dst.Decimal) {
			*dst = v
		}
	}
	maxOf(&o.SubTotalPrice, internal.ColSubTotalPrice)
	maxOf(&o.TaxAmount, internal.ColTaxAmount)
	maxOf(&o.TotalPrice, internal.ColTotalPrice)
}

// ItemsFromTable reads an edited item sheet. Headers may be internal names
// or display labels; rows without an item name are dropped.
func ItemsFromTable(table internal.RawTable, orderID string) ([]internal.Item, error) {
	columns := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		columns[i] = labels.Column(c)
	}
	if !contains(columns, internal.ColItemName) {
		return nil, &internal.SchemaError{Column: internal.ColItemName}
	}

	items := make([]internal.Item, 0, len(table.Rows))
	for _, raw := range table.Rows {
		row := make(internal.RawRow, len(raw))
		for i, c := range table.Columns {
			row[columns[i]] = raw[c]
		}
		if util.IsBlank(row[internal.ColItemName]) {
			continue
		}
		items = append(items, itemFromRow(orderID, len(items)+1, row))
	}
	return items, nil
}

func contains(list []string, name string) bool {
	for _, c := range list {
		if c == name {
			return true
		}
	}
	return false
}
