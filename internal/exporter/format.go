package exporter

import (
	"strconv"

	"github.com/BryanOD95/data-workshops/internal/aggregate"
	"github.com/BryanOD95/data-workshops/internal/config"
)

// FormatAmount formats a monetary amount with two decimal places.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatCount formats an integer count.
func FormatCount(n int) string {
	return strconv.Itoa(n)
}

// TimeseriesRecords converts period totals into CSV headers and records.
func TimeseriesRecords(buckets []aggregate.PeriodTotal) ([]string, [][]string) {
	headers := []string{"series", "period", "period_date", "total_spend"}
	records := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		records = append(records, []string{
			b.Series,
			b.Label,
			b.Start.Format(config.SnapshotDateLayout),
			FormatAmount(b.Total),
		})
	}
	return headers, records
}

// KeyTotalRecords converts per-key totals into CSV headers and records.
// keyName labels the grouping column, for example "invoice" or "customer_id".
func KeyTotalRecords(keyName string, totals []aggregate.KeyTotal) ([]string, [][]string) {
	headers := []string{keyName, "total_spend", "lines"}
	records := make([][]string, 0, len(totals))
	for _, t := range totals {
		records = append(records, []string{
			t.Key,
			FormatAmount(t.Amount),
			FormatCount(t.Lines),
		})
	}
	return headers, records
}
