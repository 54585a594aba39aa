package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/BryanOD95/data-workshops/pkg/contracts/domain"
)

// SheetResult records the outcome of parsing one workbook sheet.
type SheetResult struct {
	Name      string
	Rows      int
	Malformed int
}

// Result holds all transactions extracted from a workbook. Transactions
// preserve workbook order: sheets in workbook order, rows in sheet order.
type Result struct {
	Transactions []domain.Transaction
	Sheets       []SheetResult
	Malformed    int
}

// requiredColumns must all be present in a header row for a sheet to be
// treated as transaction data.
var requiredColumns = []string{"invoice", "stock_code", "quantity", "price", "invoice_date"}

// ReadWorkbook reads an Excel workbook and extracts retail transactions from
// every sheet whose header row is recognized. Sheets without a transaction
// header are skipped. Malformed rows are counted and skipped, never fatal.
func ReadWorkbook(ctx context.Context, logger *slog.Logger, path string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	type sheetInput struct {
		name      string
		headerRow int
		columns   map[string]int
		rows      [][]string
	}

	// Read sheets sequentially, parse them concurrently.
	var inputs []sheetInput
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}

		headerRow, columns, ok := findHeader(rows)
		if !ok {
			logger.Info("Skipping sheet without transaction header",
				slog.String("sheet", name))
			continue
		}

		inputs = append(inputs, sheetInput{
			name:      name,
			headerRow: headerRow,
			columns:   columns,
			rows:      rows,
		})
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no transaction sheets found in %s", path)
	}

	parsed := make([]sheetData, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parsed[i] = parseSheet(logger, in.name, in.rows, in.headerRow, in.columns)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, p := range parsed {
		result.Transactions = append(result.Transactions, p.transactions...)
		result.Sheets = append(result.Sheets, SheetResult{
			Name:      p.name,
			Rows:      len(p.transactions),
			Malformed: p.malformed,
		})
		result.Malformed += p.malformed
	}

	logger.Info("Workbook ingested",
		slog.String("path", path),
		slog.Int("sheets", len(result.Sheets)),
		slog.Int("transactions", len(result.Transactions)),
		slog.Int("malformed_rows", result.Malformed))

	return result, nil
}

// findHeader scans the first rows of a sheet for a transaction header and
// maps column positions by name.
func findHeader(rows [][]string) (int, map[string]int, bool) {
	probe := len(rows)
	if probe > 10 {
		probe = 10
	}

	for i := 0; i < probe; i++ {
		row := rows[i]
		if len(row) < 5 {
			continue
		}

		columns := make(map[string]int)
		for j, header := range row {
			headerLower := strings.ToLower(strings.TrimSpace(header))
			headerFlat := strings.ReplaceAll(headerLower, " ", "")

			switch {
			case headerFlat == "invoice" || headerFlat == "invoiceno":
				columns["invoice"] = j
			case strings.Contains(headerFlat, "stockcode") || headerFlat == "stock":
				columns["stock_code"] = j
			case strings.Contains(headerLower, "description"):
				columns["description"] = j
			case strings.Contains(headerLower, "quantity"):
				columns["quantity"] = j
			case strings.Contains(headerLower, "price"):
				columns["price"] = j
			case strings.Contains(headerLower, "date"):
				columns["invoice_date"] = j
			case strings.Contains(headerLower, "customer"):
				columns["customer_id"] = j
			case strings.Contains(headerLower, "country"):
				columns["country"] = j
			}
		}

		complete := true
		for _, name := range requiredColumns {
			if _, ok := columns[name]; !ok {
				complete = false
				break
			}
		}
		if complete {
			return i, columns, true
		}
	}

	return 0, nil, false
}

type sheetData struct {
	name         string
	transactions []domain.Transaction
	malformed    int
}

func parseSheet(logger *slog.Logger, name string, rows [][]string, headerRow int, columns map[string]int) sheetData {
	data := sheetData{name: name}

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		tx, err := parseRow(row, columns)
		if err != nil {
			data.malformed++
			logger.Debug("Skipping malformed row",
				slog.String("sheet", name),
				slog.Int("row", i+1),
				slog.String("error", err.Error()))
			continue
		}

		tx.ExcelSheet = name
		data.transactions = append(data.transactions, tx)
	}

	return data
}

func parseRow(row []string, columns map[string]int) (domain.Transaction, error) {
	var tx domain.Transaction

	tx.Invoice = cellAt(row, columns, "invoice")
	if tx.Invoice == "" {
		return tx, fmt.Errorf("missing invoice")
	}
	tx.StockCode = cellAt(row, columns, "stock_code")
	if tx.StockCode == "" {
		return tx, fmt.Errorf("missing stock code")
	}
	tx.Description = cellAt(row, columns, "description")
	tx.Country = cellAt(row, columns, "country")
	tx.CustomerID = normalizeCustomerID(cellAt(row, columns, "customer_id"))

	qty, err := parseQuantity(cellAt(row, columns, "quantity"))
	if err != nil {
		return tx, fmt.Errorf("invalid quantity: %w", err)
	}
	tx.Quantity = qty

	price, err := strconv.ParseFloat(cellAt(row, columns, "price"), 64)
	if err != nil {
		return tx, fmt.Errorf("invalid price: %w", err)
	}
	tx.UnitPrice = price

	when, err := parseWhen(cellAt(row, columns, "invoice_date"))
	if err != nil {
		return tx, fmt.Errorf("invalid invoice date: %w", err)
	}
	tx.InvoiceDate = when

	return tx, nil
}

func cellAt(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseQuantity(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// Excel sometimes renders integers as floats
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// normalizeCustomerID strips the trailing ".0" Excel appends when it stores
// numeric identifiers as floats.
func normalizeCustomerID(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// dateLayouts are the formatted date styles seen in retail workbooks.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/06 15:04",
	"01/02/2006 15:04",
	"1/2/2006 15:04:05",
	"2006-01-02",
}

// excelEpoch is day zero of the 1900 date system.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// parseWhen parses a formatted date string, falling back to an Excel serial
// number for cells without a date format.
func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	days := int(serial)
	frac := serial - float64(days)
	seconds := int(frac*86400 + 0.5)
	return excelEpoch.AddDate(0, 0, days).Add(time.Duration(seconds) * time.Second), nil
}
