package pipeline

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"salesmini/internal"
	"salesmini/internal/orderkey"
)

func table(columns []string, rows ...[]string) internal.RawTable {
	t := internal.RawTable{Columns: columns}
	for _, r := range rows {
		row := internal.RawRow{}
		for i, c := range columns {
			if i < len(r) {
				row[c] = r[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

var sampleColumns = []string{
	internal.ColOrdererCompanyName, internal.ColOrdererPersonName,
	internal.ColSubTotalPrice, internal.ColTaxAmount, internal.ColTotalPrice,
	internal.ColItemName, internal.ColItemCount, internal.ColItemTaxExcludedUnitPrice, internal.ColItemTaxExcludedPrice,
}

func sampleTable() internal.RawTable {
	return table(sampleColumns,
		[]string{"A", "山田", "1,000", "100", "1,100円", "ペン", "2", "300", "600"},
		[]string{"", "", "", "", "", "ノート", "1", "400", "400"},
		[]string{"B", "佐藤", "250", "25", "275", "消しゴム", "5", "50", "250"},
	)
}

func TestNormalizeOrderBlocks(t *testing.T) {
	res, err := Normalize(sampleTable())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 2 || len(res.Items) != 3 {
		t.Fatalf("orders=%d items=%d", len(res.Orders), len(res.Items))
	}

	wantA := orderkey.DeriveOrderID("A|山田|1000|100|1100")
	wantB := orderkey.DeriveOrderID("B|佐藤|250|25|275")
	if res.Orders[0].OrderID != wantA || res.Orders[1].OrderID != wantB {
		t.Fatalf("ids=%s,%s want %s,%s", res.Orders[0].OrderID, res.Orders[1].OrderID, wantA, wantB)
	}
	if res.Items[0].OrderID != wantA || res.Items[1].OrderID != wantA || res.Items[2].OrderID != wantB {
		t.Fatalf("item ids=%s,%s,%s", res.Items[0].OrderID, res.Items[1].OrderID, res.Items[2].OrderID)
	}

	a := res.Orders[0]
	if *a.CompanyName != "A" || *a.PersonName != "山田" {
		t.Fatalf("header=%q,%q", *a.CompanyName, *a.PersonName)
	}
	if !a.SubTotalPrice.Decimal.Equal(decimal.NewFromInt(1000)) || !a.TotalPrice.Decimal.Equal(decimal.NewFromInt(1100)) {
		t.Fatalf("totals=%v,%v", a.SubTotalPrice, a.TotalPrice)
	}
	if a.Address != nil {
		t.Fatal("address column absent but set")
	}
	if res.Items[1].LineNo != 2 || !res.Items[1].TaxExcludedPrice.Decimal.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("item=%+v", res.Items[1])
	}
	if res.Items[2].LineNo != 1 {
		t.Fatalf("lineNo=%d want numbering per order", res.Items[2].LineNo)
	}
}

func TestNormalizeForwardFill(t *testing.T) {
	in := table([]string{internal.ColOrdererCompanyName, internal.ColItemName},
		[]string{"A", "X"},
		[]string{"", "Y"},
	)
	res, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 1 || len(res.Items) != 2 {
		t.Fatalf("orders=%d items=%d", len(res.Orders), len(res.Items))
	}
	if res.Items[0].OrderID != res.Items[1].OrderID {
		t.Fatal("items split across orders")
	}
	if *res.Orders[0].CompanyName != "A" {
		t.Fatalf("company=%q", *res.Orders[0].CompanyName)
	}
	if in.Rows[1][internal.ColOrdererCompanyName] != "" {
		t.Fatal("input rows were mutated")
	}
}

func TestNormalizeSkipsHeaderOnlyRows(t *testing.T) {
	in := table([]string{internal.ColOrdererCompanyName, internal.ColItemName},
		[]string{"B", ""},
		[]string{"", "X"},
		[]string{"C", "  "},
	)
	res, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 || res.Items[0].Name != "X" {
		t.Fatalf("items=%+v", res.Items)
	}
	if len(res.Orders) != 1 || *res.Orders[0].CompanyName != "B" {
		t.Fatalf("orders=%+v", res.Orders)
	}
}

func TestNormalizeMissingItemName(t *testing.T) {
	in := table([]string{internal.ColOrdererCompanyName, internal.ColItemCount}, []string{"A", "1"})
	_, err := Normalize(in)
	var schemaErr *internal.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("err=%v want SchemaError", err)
	}
	if schemaErr.Column != internal.ColItemName {
		t.Fatalf("column=%s", schemaErr.Column)
	}
}

func TestNormalizeHeaderlessFallsBackToRowPosition(t *testing.T) {
	in := table([]string{internal.ColItemName, internal.ColItemCount},
		[]string{"", ""},
		[]string{"X", "1"},
		[]string{"X", "1"},
	)
	res, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 2 {
		t.Fatalf("orders=%d", len(res.Orders))
	}
	if res.Orders[0].OrderID != orderkey.DeriveOrderID("1") || res.Orders[1].OrderID != orderkey.DeriveOrderID("2") {
		t.Fatalf("ids=%s,%s", res.Orders[0].OrderID, res.Orders[1].OrderID)
	}
}

func TestNormalizeBlankKeyColumnsFallBackToRowPosition(t *testing.T) {
	in := table([]string{internal.ColOrdererCompanyName, internal.ColOrdererPersonName, internal.ColTotalPrice, internal.ColItemName},
		[]string{"", "", "", "X"},
		[]string{"", " ", "", "Y"},
	)
	res, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 2 {
		t.Fatalf("orders=%d want one per row", len(res.Orders))
	}
	if res.Orders[0].OrderID != orderkey.DeriveOrderID("0") || res.Orders[1].OrderID != orderkey.DeriveOrderID("1") {
		t.Fatalf("ids=%s,%s", res.Orders[0].OrderID, res.Orders[1].OrderID)
	}
	if res.Items[0].LineNo != 1 || res.Items[1].LineNo != 1 {
		t.Fatalf("lineNos=%d,%d", res.Items[0].LineNo, res.Items[1].LineNo)
	}
}

func TestNormalizeMoneyParsing(t *testing.T) {
	in := table([]string{internal.ColItemName, internal.ColItemTaxExcludedPrice, internal.ColItemTaxAmount},
		[]string{"X", "1,234円", "abc"},
	)
	res, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	it := res.Items[0]
	if !it.TaxExcludedPrice.Valid || !it.TaxExcludedPrice.Decimal.Equal(decimal.NewFromInt(1234)) {
		t.Fatalf("price=%v", it.TaxExcludedPrice)
	}
	if it.TaxAmount.Valid {
		t.Fatalf("tax should be missing, got %v", it.TaxAmount.Decimal)
	}
	if res.ParseWarnings != 1 {
		t.Fatalf("warnings=%d", res.ParseWarnings)
	}
}

func TestNormalizeIgnoresUnknownColumns(t *testing.T) {
	in := table([]string{"memo", internal.ColItemName}, []string{"hello", "X"})
	res, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 || len(res.Orders) != 1 {
		t.Fatalf("orders=%d items=%d", len(res.Orders), len(res.Items))
	}
}

func TestNormalizePartition(t *testing.T) {
	in := table(sampleColumns,
		[]string{"A", "山田", "100", "10", "110", "p1", "1", "100", "100"},
		[]string{"", "", "", "", "", "p2", "1", "0", "0"},
		[]string{"B", "", "200", "20", "220", "p3", "2", "100", "200"},
		[]string{"", "", "", "", "", "", "", "", ""},
		[]string{"A", "山田", "100", "10", "110", "p4", "1", "100", "100"},
		[]string{"C", "鈴木", "abc", "", "", "p5", "1", "1", "1"},
	)
	res, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]int{}
	for _, o := range res.Orders {
		seen[o.OrderID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("order %s appears %d times", id, n)
		}
	}
	used := map[string]bool{}
	for _, it := range res.Items {
		if seen[it.OrderID] != 1 {
			t.Fatalf("item %s references unknown order %s", it.Name, it.OrderID)
		}
		used[it.OrderID] = true
	}
	if len(used) != len(seen) {
		t.Fatalf("orders without items: %d orders, %d referenced", len(seen), len(used))
	}
	if len(res.Orders) != 3 {
		t.Fatalf("orders=%d", len(res.Orders))
	}
}

func TestMergeOrderRowKeepsMaxTotals(t *testing.T) {
	present := map[string]bool{internal.ColOrdererCompanyName: true, internal.ColSubTotalPrice: true}
	var o internal.Order
	mergeOrderRow(&o, internal.RawRow{internal.ColOrdererCompanyName: "A", internal.ColSubTotalPrice: "1000"}, present)
	mergeOrderRow(&o, internal.RawRow{internal.ColOrdererCompanyName: "A2", internal.ColSubTotalPrice: "1200"}, present)
	mergeOrderRow(&o, internal.RawRow{internal.ColOrdererCompanyName: "A3", internal.ColSubTotalPrice: ""}, present)

	if !o.SubTotalPrice.Valid || !o.SubTotalPrice.Decimal.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("subtotal=%v", o.SubTotalPrice)
	}
	if *o.CompanyName != "A" {
		t.Fatalf("company=%q", *o.CompanyName)
	}
	if o.TaxAmount.Valid {
		t.Fatal("tax column absent but set")
	}
}

func TestForwardFill(t *testing.T) {
	rows := []internal.RawRow{
		{"c": "1", "other": "x"},
		{"c": ""},
		{},
		{"c": "2"},
		{"c": " "},
	}
	got := ForwardFill(rows, []string{"c"})
	want := []string{"1", "1", "1", "2", "2"}
	for i, w := range want {
		if got[i]["c"] != w {
			t.Fatalf("row %d: got %q want %q", i, got[i]["c"], w)
		}
	}
	if _, ok := got[1]["other"]; ok {
		t.Fatal("unlisted column was filled")
	}
}

func TestItemsFromTableAcceptsLabels(t *testing.T) {
	in := table([]string{"商品名", "数量", "単価(税抜)", internal.ColItemNum},
		[]string{"ペン", "2", "100", "P-1"},
		[]string{"", "1", "1", ""},
	)
	items, err := ItemsFromTable(in, "ORD-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Name != "ペン" || *items[0].Num != "P-1" || items[0].OrderID != "ORD-1" {
		t.Fatalf("items=%+v", items)
	}
	if items[0].TaxExcludedUnitPrice.Decimal.String() != "100" || items[0].Count.Decimal.String() != "2" {
		t.Fatalf("item=%+v", items[0])
	}

	_, err = ItemsFromTable(table([]string{"数量"}, []string{"1"}), "ORD-1")
	var schemaErr *internal.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("err=%v", err)
	}
}
