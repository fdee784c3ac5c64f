package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"salesmini/internal"
	"salesmini/internal/labels"
	"salesmini/internal/pipeline"
	"salesmini/internal/util"
)

func printSummary(w io.Writer, s pipeline.Summary) {
	fmt.Fprintf(w, "orders: %s  total: %s 円\n", humanize.Comma(int64(s.OrderCount)), humanize.Comma(s.TotalAmount.Round(0).IntPart()))
	if s.TopCompany != "" {
		fmt.Fprintf(w, "top company: %s (%d)\n", s.TopCompany, s.TopCompanyN)
	}
}

func printOrders(w io.Writer, orders []internal.Order) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(labels.Labels([]string{
		internal.ColOrderID, internal.ColOrdererCompanyName, internal.ColOrdererPersonName,
		internal.ColSubTotalPrice, internal.ColTaxAmount, internal.ColTotalPrice,
	}))
	for _, o := range orders {
		table.Append([]string{
			o.OrderID,
			util.DerefString(o.CompanyName),
			util.DerefString(o.PersonName),
			util.Yen(o.SubTotalPrice),
			util.Yen(o.TaxAmount),
			util.Yen(o.TotalPrice),
		})
	}
	table.Render()
}

func printOrderDetail(w io.Writer, order internal.Order, items []internal.Item) {
	fmt.Fprintf(w, "%s: %s\n", labels.Label(internal.ColOrderID), order.OrderID)
	fmt.Fprintf(w, "%s: %s\n", labels.Label(internal.ColOrdererCompanyName), util.DerefString(order.CompanyName))
	fmt.Fprintf(w, "%s: %s\n", labels.Label(internal.ColOrdererPersonName), util.DerefString(order.PersonName))
	fmt.Fprintf(w, "%s: %s\n", labels.Label(internal.ColTotalPrice), util.Yen(order.TotalPrice))

	table := tablewriter.NewWriter(w)
	table.SetHeader(labels.Labels([]string{
		"lineNo", internal.ColItemName, internal.ColItemNum, internal.ColItemCount,
		internal.ColItemQuantityUnit, internal.ColItemTaxExcludedUnitPrice, internal.ColItemTaxExcludedPrice,
	}))
	for _, it := range items {
		count := "-"
		if it.Count.Valid {
			count = it.Count.Decimal.String()
		}
		table.Append([]string{
			strconv.Itoa(it.LineNo),
			it.Name,
			util.DerefString(it.Num),
			count,
			util.DerefString(it.QuantityUnit),
			util.Yen(it.TaxExcludedUnitPrice),
			util.Yen(it.TaxExcludedPrice),
		})
	}
	table.Render()
}
