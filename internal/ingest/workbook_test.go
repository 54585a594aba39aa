package ingest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	// First vintage uses the newer header names.
	sheet1 := "Year 2009-2010"
	_, err := f.NewSheet(sheet1)
	require.NoError(t, err)
	rows1 := [][]interface{}{
		{"Invoice", "StockCode", "Description", "Quantity", "InvoiceDate", "Price", "Customer ID", "Country"},
		{"489434", "85048", "15CM CHRISTMAS GLASS BALL 20 LIGHTS", "12", "2009-12-01 07:45:00", "6.95", "13085", "United Kingdom"},
		{"C489449", "22087", "PAPER BUNTING WHITE LACE", "-12", "2009-12-01 10:33:00", "2.95", "16321", "Australia"},
		{"489435", "79323P", "PINK CHERRY LIGHTS", "not-a-number", "2009-12-01 07:46:00", "6.75", "13085", "United Kingdom"},
	}
	for i, row := range rows1 {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet1, cell, &row))
	}

	// Second vintage uses InvoiceNo and UnitPrice.
	sheet2 := "Year 2010-2011"
	_, err = f.NewSheet(sheet2)
	require.NoError(t, err)
	rows2 := [][]interface{}{
		{"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate", "UnitPrice", "CustomerID", "Country"},
		{"536365", "85123A", "WHITE HANGING HEART T-LIGHT HOLDER", "6", "2010-12-01 08:26:00", "2.55", "17850.0", "United Kingdom"},
		{"", "", "", "", "", "", "", ""},
		{"536366", "71053", "WHITE METAL LANTERN", "6", "2010-12-01 08:28:00", "3.39", "", "United Kingdom"},
	}
	for i, row := range rows2 {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet2, cell, &row))
	}

	// A notes sheet with no transaction header.
	notes := "Notes"
	_, err = f.NewSheet(notes)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(notes, "A1", &[]interface{}{"Source", "UCI online retail"}))

	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "retail.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := writeTestWorkbook(t)

	result, err := ReadWorkbook(context.Background(), discardLogger(), path)
	require.NoError(t, err)

	require.Len(t, result.Sheets, 2)
	assert.Equal(t, "Year 2009-2010", result.Sheets[0].Name)
	assert.Equal(t, 2, result.Sheets[0].Rows)
	assert.Equal(t, 1, result.Sheets[0].Malformed)
	assert.Equal(t, "Year 2010-2011", result.Sheets[1].Name)
	assert.Equal(t, 2, result.Sheets[1].Rows)
	assert.Equal(t, 0, result.Sheets[1].Malformed)
	assert.Equal(t, 1, result.Malformed)

	require.Len(t, result.Transactions, 4)

	first := result.Transactions[0]
	assert.Equal(t, "489434", first.Invoice)
	assert.Equal(t, "85048", first.StockCode)
	assert.Equal(t, int64(12), first.Quantity)
	assert.Equal(t, 6.95, first.UnitPrice)
	assert.Equal(t, "13085", first.CustomerID)
	assert.Equal(t, "Year 2009-2010", first.ExcelSheet)
	assert.True(t, first.InvoiceDate.Equal(time.Date(2009, 12, 1, 7, 45, 0, 0, time.UTC)))

	cancel := result.Transactions[1]
	assert.True(t, cancel.IsCancellation("C"))
	assert.Equal(t, int64(-12), cancel.Quantity)

	// Second sheet header variants map to the same fields, and the float
	// suffix on the customer identifier is stripped.
	third := result.Transactions[2]
	assert.Equal(t, "536365", third.Invoice)
	assert.Equal(t, 2.55, third.UnitPrice)
	assert.Equal(t, "17850", third.CustomerID)
	assert.Equal(t, "Year 2010-2011", third.ExcelSheet)

	fourth := result.Transactions[3]
	assert.False(t, fourth.HasCustomer())
}

func TestReadWorkbookNoTransactionSheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"just", "notes"}))

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.SaveAs(path))

	_, err := ReadWorkbook(context.Background(), discardLogger(), path)
	assert.Error(t, err)
}

func TestReadWorkbookMissingFile(t *testing.T) {
	_, err := ReadWorkbook(context.Background(), discardLogger(), filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestFindHeader(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]string
		found  bool
		header int
	}{
		{
			name: "standard header on first row",
			rows: [][]string{
				{"Invoice", "StockCode", "Description", "Quantity", "InvoiceDate", "Price", "Customer ID", "Country"},
			},
			found:  true,
			header: 0,
		},
		{
			name: "header below a title row",
			rows: [][]string{
				{"Online Retail Extract"},
				{},
				{"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate", "UnitPrice"},
			},
			found:  true,
			header: 2,
		},
		{
			name: "missing price column",
			rows: [][]string{
				{"Invoice", "StockCode", "Description", "Quantity", "InvoiceDate"},
			},
			found: false,
		},
		{
			name:  "no rows",
			rows:  nil,
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, columns, ok := findHeader(tt.rows)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.header, header)
				assert.Contains(t, columns, "invoice")
				assert.Contains(t, columns, "price")
			}
		})
	}
}

func TestParseWhen(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "iso datetime",
			in:   "2010-12-01 08:26:00",
			want: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
		},
		{
			name: "short us datetime",
			in:   "12/1/10 08:26",
			want: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
		},
		{
			name: "date only",
			in:   "2010-12-01",
			want: time.Date(2010, 12, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "excel serial with time fraction",
			in:   "40513.3514",
			want: time.Date(2010, 12, 1, 8, 26, 1, 0, time.UTC),
		},
		{
			name:    "empty",
			in:      "",
			wantErr: true,
		},
		{
			name:    "garbage",
			in:      "yesterday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWhen(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestNormalizeCustomerID(t *testing.T) {
	assert.Equal(t, "17850", normalizeCustomerID("17850.0"))
	assert.Equal(t, "17850", normalizeCustomerID("17850"))
	assert.Equal(t, "", normalizeCustomerID(""))
}
