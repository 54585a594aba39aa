package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/BryanOD95/data-workshops/internal/dataset"
)

// Series discriminators for the combined time-bucketed table.
const (
	SeriesDaily   = "daily"
	SeriesWeekly  = "weekly"
	SeriesMonthly = "monthly"
)

// PeriodTotal is the summed spend for one time bucket. Start is the
// earliest invoice day observed inside the bucket, not the calendar start
// of the period.
type PeriodTotal struct {
	Series string
	Label  string
	Start  time.Time
	Total  float64
}

// TimeBuckets computes the daily, weekly, and monthly spend totals and
// unions them into one table tagged by series, sorted by (series, start).
func TimeBuckets(f *dataset.Frame) ([]PeriodTotal, error) {
	day := f.Column("invoice_day")
	if day == nil {
		return nil, fmt.Errorf("column %q not found", "invoice_day")
	}
	amounts, err := rowAmounts(f)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		start time.Time
		total float64
	}
	buckets := map[string]map[string]*bucket{
		SeriesDaily:   {},
		SeriesWeekly:  {},
		SeriesMonthly: {},
	}

	add := func(series, label string, t time.Time, amount float64) {
		b, ok := buckets[series][label]
		if !ok {
			b = &bucket{start: t}
			buckets[series][label] = b
		}
		if t.Before(b.start) {
			b.start = t
		}
		b.total += amount
	}

	for r, amount := range amounts {
		v := day.Values[r]
		if v.Kind != dataset.KindTime {
			continue
		}
		t := v.Time
		isoYear, isoWeek := t.ISOWeek()

		add(SeriesDaily, t.Format("2006-01-02"), t, amount)
		add(SeriesWeekly, fmt.Sprintf("%d-W%02d", isoYear, isoWeek), t, amount)
		add(SeriesMonthly, t.Format("2006-01"), t, amount)
	}

	var out []PeriodTotal
	for series, labels := range buckets {
		for label, b := range labels {
			out = append(out, PeriodTotal{Series: series, Label: label, Start: b.start, Total: b.total})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Series != out[j].Series {
			return out[i].Series < out[j].Series
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}
