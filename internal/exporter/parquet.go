package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/BryanOD95/data-workshops/internal/aggregate"
	"github.com/BryanOD95/data-workshops/internal/dataset"
)

// CleanedRow is the parquet schema for the cleaned transaction snapshot.
type CleanedRow struct {
	Invoice        string    `parquet:"invoice"`
	StockCode      string    `parquet:"stock_code"`
	Description    *string   `parquet:"description,optional"`
	Quantity       int64     `parquet:"quantity"`
	Price          float64   `parquet:"price"`
	InvoiceDate    time.Time `parquet:"invoice_date,timestamp(millisecond)"`
	CustomerID     *string   `parquet:"customer_id,optional"`
	Country        string    `parquet:"country"`
	ExcelSheet     string    `parquet:"excel_sheet"`
	InvoiceDay     time.Time `parquet:"invoice_day,timestamp(millisecond)"`
	InvoiceMonth   string    `parquet:"invoice_month"`
	InvoiceWeekday string    `parquet:"invoice_weekday"`
	InvoiceMday    int64     `parquet:"invoice_mday"`
	InvoiceHour    int64     `parquet:"invoice_hour"`
	InvoiceMinute  int64     `parquet:"invoice_minute"`
	InvoiceWeek    int64     `parquet:"invoice_week"`
	YearMonth      string    `parquet:"year_month"`
	MonthProp      float64   `parquet:"month_prop"`
	IsCancelled    bool      `parquet:"is_cancelled"`
}

// PeriodRow is the parquet schema for timeseries spend totals.
type PeriodRow struct {
	Series string    `parquet:"series"`
	Period string    `parquet:"period"`
	Start  time.Time `parquet:"period_date,timestamp(millisecond)"`
	Total  float64   `parquet:"total_spend"`
}

// WriteParquet writes rows to a parquet file, creating parent directories.
func WriteParquet[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		file.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return file.Close()
}

// CleanedRows converts a cleaned snapshot frame into parquet rows. Columns
// missing from the frame leave the corresponding fields at their zero values.
func CleanedRows(f *dataset.Frame) []CleanedRow {
	rows := make([]CleanedRow, f.NumRows())
	for i := range rows {
		r := &rows[i]
		r.Invoice = cellString(f, "invoice", i)
		r.StockCode = cellString(f, "stock_code", i)
		r.Description = cellOptString(f, "description", i)
		r.Quantity = cellInt(f, "quantity", i)
		r.Price = cellFloat(f, "price", i)
		r.InvoiceDate = cellTime(f, "invoice_date", i)
		r.CustomerID = cellOptString(f, "customer_id", i)
		r.Country = cellString(f, "country", i)
		r.ExcelSheet = cellString(f, "excel_sheet", i)
		r.InvoiceDay = cellTime(f, "invoice_day", i)
		r.InvoiceMonth = cellString(f, "invoice_month", i)
		r.InvoiceWeekday = cellString(f, "invoice_weekday", i)
		r.InvoiceMday = cellInt(f, "invoice_mday", i)
		r.InvoiceHour = cellInt(f, "invoice_hour", i)
		r.InvoiceMinute = cellInt(f, "invoice_minute", i)
		r.InvoiceWeek = cellInt(f, "invoice_week", i)
		r.YearMonth = cellString(f, "year_month", i)
		r.MonthProp = cellFloat(f, "month_prop", i)
		r.IsCancelled = cellBool(f, "is_cancelled", i)
	}
	return rows
}

// PeriodRows converts timeseries buckets into parquet rows.
func PeriodRows(buckets []aggregate.PeriodTotal) []PeriodRow {
	rows := make([]PeriodRow, len(buckets))
	for i, b := range buckets {
		rows[i] = PeriodRow{
			Series: b.Series,
			Period: b.Label,
			Start:  b.Start,
			Total:  b.Total,
		}
	}
	return rows
}

func cell(f *dataset.Frame, name string, row int) dataset.Value {
	col := f.Column(name)
	if col == nil || row >= len(col.Values) {
		return dataset.Null()
	}
	return col.Values[row]
}

func cellString(f *dataset.Frame, name string, row int) string {
	return cell(f, name, row).Render()
}

func cellOptString(f *dataset.Frame, name string, row int) *string {
	v := cell(f, name, row)
	if v.IsNull() {
		return nil
	}
	s := v.Render()
	return &s
}

func cellFloat(f *dataset.Frame, name string, row int) float64 {
	n, _ := cell(f, name, row).AsFloat()
	return n
}

func cellInt(f *dataset.Frame, name string, row int) int64 {
	v := cell(f, name, row)
	if v.Kind == dataset.KindInt {
		return v.I64
	}
	n, _ := v.AsFloat()
	return int64(n)
}

func cellBool(f *dataset.Frame, name string, row int) bool {
	v := cell(f, name, row)
	return v.Kind == dataset.KindBool && v.Flag
}

func cellTime(f *dataset.Frame, name string, row int) time.Time {
	v := cell(f, name, row)
	if v.Kind == dataset.KindTime {
		return v.Time
	}
	return time.Time{}
}
