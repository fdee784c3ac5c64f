package pipeline

import (
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salesmini/internal"
	"salesmini/internal/util"
)

const (
	OrdersSheet = "Orders"
	ItemsSheet  = "OrderItems"
)

// ExportXLSX writes the session to a workbook with an Orders and an
// OrderItems sheet, one entity per row under internal column names.
func ExportXLSX(orders []internal.Order, items []internal.Item, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), OrdersSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(ItemsSheet); err != nil {
		return err
	}

	writeHeader(f, OrdersSheet, internal.OrderColumns)
	for i, o := range orders {
		set := rowSetter(f, OrdersSheet, i+2)
		set(1, o.OrderID)
		set(2, util.DerefString(o.CompanyName))
		set(3, util.DerefString(o.Department))
		set(4, util.DerefString(o.PersonName))
		set(5, util.DerefString(o.PostalCode))
		set(6, util.DerefString(o.Address))
		set(7, util.DerefString(o.Tel))
		set(8, util.DerefString(o.Fax))
		set(9, util.DerefString(o.Email))
		set(10, derefMoney(o.SubTotalPrice))
		set(11, derefMoney(o.TaxAmount))
		set(12, derefMoney(o.TotalPrice))
	}

	writeHeader(f, ItemsSheet, internal.ItemSheetColumns)
	for i, it := range items {
		set := rowSetter(f, ItemsSheet, i+2)
		set(1, it.OrderID)
		set(2, it.LineNo)
		set(3, it.Name)
		set(4, util.DerefString(it.Num))
		set(5, derefMoney(it.Count))
		set(6, util.DerefString(it.Date))
		set(7, derefMoney(it.Discount))
		set(8, util.DerefString(it.Etc))
		set(9, util.DerefString(it.QuantityUnit))
		set(10, derefMoney(it.TaxExcludedUnitPrice))
		set(11, derefMoney(it.TaxExcludedPrice))
		set(12, derefMoney(it.TaxIncludedUnitPrice))
		set(13, derefMoney(it.TaxIncludedPrice))
		set(14, derefMoney(it.TaxAmount))
		set(15, util.DerefString(it.TaxInfo))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func rowSetter(f *excelize.File, sheet string, row int) func(col int, value any) {
	return func(col int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, value)
	}
}

func derefMoney(v decimal.NullDecimal) any {
	if !v.Valid {
		return ""
	}
	if v.Decimal.IsInteger() {
		return v.Decimal.IntPart()
	}
	return v.Decimal.InexactFloat64()
}
