package internal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RawRow maps a namespaced column name to its trimmed cell text.
// A missing key and an empty string both mean the cell is absent.
type RawRow map[string]string

// RawTable is the reader output: the column header in file order plus rows.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

func (t RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

type Order struct {
	OrderID     string
	CompanyName *string
	Department  *string
	PersonName  *string
	PostalCode  *string
	Address     *string
	Tel         *string
	Fax         *string
	Email       *string

	SubTotalPrice decimal.NullDecimal
	TaxAmount     decimal.NullDecimal
	TotalPrice    decimal.NullDecimal
}

type Item struct {
	OrderID string
	LineNo  int

	Name         string
	Num          *string
	Date         *string
	QuantityUnit *string
	TaxInfo      *string
	Etc          *string

	Count                decimal.NullDecimal
	Discount             decimal.NullDecimal
	TaxExcludedUnitPrice decimal.NullDecimal
	TaxExcludedPrice     decimal.NullDecimal
	TaxIncludedUnitPrice decimal.NullDecimal
	TaxIncludedPrice     decimal.NullDecimal
	TaxAmount            decimal.NullDecimal
}

type Totals struct {
	SubTotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// SchemaError reports a mandatory column missing from the input.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input has no %q column; check the export column names", e.Column)
}
