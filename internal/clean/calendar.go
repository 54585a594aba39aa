package clean

import (
	"fmt"
	"time"

	"github.com/BryanOD95/data-workshops/internal/dataset"
)

var (
	monthLevels = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	weekdayLevels = []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}
)

// deriveCalendar appends the calendar columns derived from the timestamp
// column: day, month name, weekday name, day-of-month, hour, minute,
// ISO week, year-month key, and the proportion through the month.
//
// The proportion normalizes against the maximum day-of-month actually
// observed in the data for that year-month, not the calendar length of
// the month. The original analysis did it this way; reproduced as-is.
func deriveCalendar(f *dataset.Frame, timestampCol string) error {
	src := f.Column(timestampCol)
	if src == nil {
		return fmt.Errorf("timestamp column %q not found", timestampCol)
	}

	n := len(src.Values)
	day := make([]dataset.Value, n)
	month := make([]dataset.Value, n)
	weekday := make([]dataset.Value, n)
	mday := make([]dataset.Value, n)
	hour := make([]dataset.Value, n)
	minute := make([]dataset.Value, n)
	week := make([]dataset.Value, n)
	yearMonth := make([]dataset.Value, n)
	monthProp := make([]dataset.Value, n)

	// First pass: plain derivations plus the observed max day per month.
	maxMday := make(map[string]int)
	for i, v := range src.Values {
		if v.Kind != dataset.KindTime {
			day[i] = dataset.Null()
			month[i] = dataset.Null()
			weekday[i] = dataset.Null()
			mday[i] = dataset.Null()
			hour[i] = dataset.Null()
			minute[i] = dataset.Null()
			week[i] = dataset.Null()
			yearMonth[i] = dataset.Null()
			monthProp[i] = dataset.Null()
			continue
		}
		t := v.Time
		ym := t.Format("2006-01")
		_, isoWeek := t.ISOWeek()

		day[i] = dataset.TimeVal(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()))
		month[i] = dataset.String(t.Month().String())
		weekday[i] = dataset.String(t.Weekday().String())
		mday[i] = dataset.Int(int64(t.Day()))
		hour[i] = dataset.Int(int64(t.Hour()))
		minute[i] = dataset.Int(int64(t.Minute()))
		week[i] = dataset.Int(int64(isoWeek))
		yearMonth[i] = dataset.String(ym)

		if t.Day() > maxMday[ym] {
			maxMday[ym] = t.Day()
		}
	}

	// Second pass: proportion through the observed month.
	for i, v := range src.Values {
		if v.Kind != dataset.KindTime {
			continue
		}
		ym := v.Time.Format("2006-01")
		monthProp[i] = dataset.Float(float64(v.Time.Day()) / float64(maxMday[ym]))
	}

	cols := []dataset.Column{
		{Name: "invoice_day", Values: day},
		{Name: "invoice_month", Values: month, Levels: presentLevels(month, monthLevels)},
		{Name: "invoice_weekday", Values: weekday, Levels: presentLevels(weekday, weekdayLevels)},
		{Name: "invoice_mday", Values: mday},
		{Name: "invoice_hour", Values: hour},
		{Name: "invoice_minute", Values: minute},
		{Name: "invoice_week", Values: week},
		{Name: "year_month", Values: yearMonth},
		{Name: "month_prop", Values: monthProp},
	}
	for _, c := range cols {
		if f.HasColumn(c.Name) {
			f.DropColumn(c.Name)
		}
		if err := f.AddColumn(c); err != nil {
			return err
		}
	}
	return nil
}

// presentLevels filters an ordered level set down to the labels that
// actually occur, keeping calendar order rather than first-seen order.
func presentLevels(values []dataset.Value, ordered []string) []string {
	present := make(map[string]bool)
	for _, v := range values {
		if v.Kind == dataset.KindString {
			present[v.Str] = true
		}
	}
	var out []string
	for _, l := range ordered {
		if present[l] {
			out = append(out, l)
		}
	}
	return out
}
