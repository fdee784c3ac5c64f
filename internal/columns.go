package internal

const (
	ColOrderID = "orderId"

	ColSupplierCompanyName = "supplier.companyName"

	ColOrdererCompanyName = "orderer.companyName"
	ColOrdererDepartment  = "orderer.department"
	ColOrdererPersonName  = "orderer.personName"
	ColOrdererPostalCode  = "orderer.postalCode"
	ColOrdererAddress     = "orderer.address"
	ColOrdererTel         = "orderer.tel"
	ColOrdererFax         = "orderer.fax"
	ColOrdererEmail       = "orderer.email"

	ColTotalPrice    = "totalPriceInfo.totalPrice"
	ColSubTotalPrice = "totalPriceInfo.subTotalPrice"
	ColTaxAmount     = "totalPriceInfo.taxAmount"

	ColItemName                 = "items.name"
	ColItemNum                  = "items.num"
	ColItemCount                = "items.count"
	ColItemDate                 = "items.date"
	ColItemDiscount             = "items.discount"
	ColItemEtc                  = "items.etc"
	ColItemQuantityUnit         = "items.quantityUnit"
	ColItemTaxExcludedUnitPrice = "items.taxExcludedUnitPrice"
	ColItemTaxExcludedPrice     = "items.taxExcludedPrice"
	ColItemTaxIncludedUnitPrice = "items.taxIncludedUnitPrice"
	ColItemTaxIncludedPrice     = "items.taxIncludedPrice"
	ColItemTaxAmount            = "items.taxAmount"
	ColItemTaxInfo              = "items.taxInfo"
)

// HeaderColumns are printed once per order block and forward-filled.
var HeaderColumns = []string{
	"supplier.companyName", "supplier.department", "supplier.personName", "supplier.postalCode", "supplier.address", "supplier.tel", "supplier.fax",
	"orderer.companyName", "orderer.department", "orderer.personName", "orderer.owner", "orderer.postalCode", "orderer.address", "orderer.tel", "orderer.fax", "orderer.email", "orderer.homepage",
	"totalPriceInfo.totalPrice", "totalPriceInfo.subTotalPrice", "totalPriceInfo.taxAmount", "totalPriceInfo.taxInfo",
	"subTotals.totalPriceInclude08", "subTotals.totalPriceInclude10", "subTotals.totalPriceIncludeEtc",
	"subTotals.subTotalPriceExclude08", "subTotals.subTotalPriceExclude10", "subTotals.subTotalPriceExcludeEtc",
	"subTotals.discount", "subTotals.taxAmount08", "subTotals.taxAmount10", "subTotals.taxAmountEtc", "subTotals.taxInfo", "subTotals.etcAmount",
}

var ItemColumns = []string{
	"items.name", "items.num", "items.count", "items.date", "items.discount", "items.etc", "items.quantityUnit",
	"items.taxExcludedUnitPrice", "items.taxExcludedPrice", "items.taxIncludedUnitPrice", "items.taxIncludedPrice", "items.taxAmount", "items.taxInfo",
}

var MoneyColumns = []string{
	"items.taxExcludedUnitPrice", "items.taxExcludedPrice", "items.taxIncludedUnitPrice", "items.taxIncludedPrice", "items.taxAmount",
	"totalPriceInfo.totalPrice", "totalPriceInfo.subTotalPrice", "totalPriceInfo.taxAmount",
	"subTotals.totalPriceInclude08", "subTotals.totalPriceInclude10", "subTotals.totalPriceIncludeEtc",
	"subTotals.subTotalPriceExclude08", "subTotals.subTotalPriceExclude10", "subTotals.subTotalPriceExcludeEtc",
	"subTotals.discount", "subTotals.taxAmount08", "subTotals.taxAmount10", "subTotals.taxAmountEtc", "subTotals.etcAmount",
}

// OrderColumns is the Orders sheet layout.
var OrderColumns = []string{
	ColOrderID,
	ColOrdererCompanyName, ColOrdererDepartment, ColOrdererPersonName,
	ColOrdererPostalCode, ColOrdererAddress, ColOrdererTel, ColOrdererFax, ColOrdererEmail,
	ColSubTotalPrice, ColTaxAmount, ColTotalPrice,
}

// ItemSheetColumns is the OrderItems sheet layout.
var ItemSheetColumns = append([]string{ColOrderID, "lineNo"}, ItemColumns...)
