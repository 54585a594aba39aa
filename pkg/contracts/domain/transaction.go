package domain

import (
	"strings"
	"time"
)

// Transaction represents a single retail invoice line as it appears in the
// raw workbook. Quantity may be negative for returns and cancellations.
type Transaction struct {
	Invoice     string    `json:"invoice" csv:"Invoice" validate:"required"`
	StockCode   string    `json:"stock_code" csv:"StockCode" validate:"required"`
	Description string    `json:"description" csv:"Description"`
	Quantity    int64     `json:"quantity" csv:"Quantity"`
	UnitPrice   float64   `json:"unit_price" csv:"Price"`
	InvoiceDate time.Time `json:"invoice_date" csv:"InvoiceDate"`
	CustomerID  string    `json:"customer_id,omitempty" csv:"Customer ID"`
	Country     string    `json:"country" csv:"Country"`
	ExcelSheet  string    `json:"excel_sheet" csv:"excel_sheet" validate:"required"`
}

// Amount returns the line amount (unit price times quantity).
// Negative quantities net against positive ones when summed.
func (t Transaction) Amount() float64 {
	return t.UnitPrice * float64(t.Quantity)
}

// IsCancellation reports whether the invoice identifier carries the
// cancellation prefix.
func (t Transaction) IsCancellation(prefix string) bool {
	return prefix != "" && strings.HasPrefix(t.Invoice, prefix)
}

// HasCustomer reports whether a customer identifier is present.
func (t Transaction) HasCustomer() bool {
	return t.CustomerID != ""
}
