package config

// Application constants shared by the ingest and analysis tools
const (
	// Application Info
	AppName    = "Retail EDA"
	AppVersion = "1.2.0"

	// Snapshot column headers as written by the ingester. The cleaner
	// normalizes these; everything downstream uses the normalized names.
	ColInvoice     = "Invoice"
	ColStockCode   = "StockCode"
	ColDescription = "Description"
	ColQuantity    = "Quantity"
	ColUnitPrice   = "Price"
	ColInvoiceDate = "InvoiceDate"
	ColCustomerID  = "Customer ID"
	ColCountry     = "Country"
	ColExcelSheet  = "excel_sheet"

	// Timestamp layout used in snapshot files
	SnapshotTimeLayout = "2006-01-02 15:04:05"
	SnapshotDateLayout = "2006-01-02"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
