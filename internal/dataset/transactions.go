package dataset

import (
	"github.com/BryanOD95/data-workshops/internal/config"
	"github.com/BryanOD95/data-workshops/pkg/contracts/domain"
)

// FromTransactions builds the raw snapshot frame from ingested records,
// using the workbook-facing column headers. Missing customer ids become
// null cells; everything else is populated as typed values.
func FromTransactions(txs []domain.Transaction) *Frame {
	n := len(txs)
	invoice := make([]Value, n)
	stock := make([]Value, n)
	desc := make([]Value, n)
	qty := make([]Value, n)
	price := make([]Value, n)
	date := make([]Value, n)
	customer := make([]Value, n)
	country := make([]Value, n)
	sheet := make([]Value, n)

	for i, tx := range txs {
		invoice[i] = String(tx.Invoice)
		stock[i] = String(tx.StockCode)
		if tx.Description == "" {
			desc[i] = Null()
		} else {
			desc[i] = String(tx.Description)
		}
		qty[i] = Int(tx.Quantity)
		price[i] = Float(tx.UnitPrice)
		date[i] = TimeVal(tx.InvoiceDate)
		if tx.CustomerID == "" {
			customer[i] = Null()
		} else {
			customer[i] = String(tx.CustomerID)
		}
		country[i] = String(tx.Country)
		sheet[i] = String(tx.ExcelSheet)
	}

	f, _ := New(
		Column{Name: config.ColInvoice, Values: invoice},
		Column{Name: config.ColStockCode, Values: stock},
		Column{Name: config.ColDescription, Values: desc},
		Column{Name: config.ColQuantity, Values: qty},
		Column{Name: config.ColUnitPrice, Values: price},
		Column{Name: config.ColInvoiceDate, Values: date},
		Column{Name: config.ColCustomerID, Values: customer},
		Column{Name: config.ColCountry, Values: country},
		Column{Name: config.ColExcelSheet, Values: sheet},
	)
	return f
}
