package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryanOD95/data-workshops/internal/aggregate"
	"github.com/BryanOD95/data-workshops/internal/dataset"
)

func TestWriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteSimpleCSV("out.csv", []string{"a", "b"}, [][]string{
		{"1", "x"},
		{"2", "y"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x\n2,y\n", string(data))
}

func TestWriteCSVWithBOM(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV("bom.csv", WriteOptions{
		Headers:   []string{"h"},
		Records:   [][]string{{"v"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "bom.csv"))
	require.NoError(t, err)
	require.True(t, len(data) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, "h\nv\n", string(data[3:]))
}

func TestWriteCSVAppend(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteSimpleCSV("log.csv", []string{"n"}, [][]string{{"1"}}))
	require.NoError(t, w.WriteCSV("log.csv", WriteOptions{
		Records: [][]string{{"2"}},
		Append:  true,
	}))

	data, err := os.ReadFile(filepath.Join(dir, "log.csv"))
	require.NoError(t, err)
	assert.Equal(t, "n\n1\n2\n", string(data))
}

func TestWriteFrame(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	f, err := dataset.New(
		dataset.Column{Name: "invoice", Values: []dataset.Value{dataset.String("A1"), dataset.String("A2")}},
		dataset.Column{Name: "price", Values: []dataset.Value{dataset.Float(2.5), dataset.Null()}},
	)
	require.NoError(t, err)

	require.NoError(t, w.WriteFrame("frame.csv", f))

	data, err := os.ReadFile(filepath.Join(dir, "frame.csv"))
	require.NoError(t, err)
	assert.Equal(t, "invoice,price\nA1,2.5\nA2,\n", string(data))
}

func TestStreamWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	sw, err := w.CreateStreamWriter("stream.csv", []string{"a"})
	require.NoError(t, err)
	require.NoError(t, sw.WriteRecord([]string{"1"}))
	require.NoError(t, sw.WriteRecord([]string{"2"}))
	require.NoError(t, sw.Close())

	data, err := os.ReadFile(filepath.Join(dir, "stream.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n2\n", string(data))
}

func TestResolvePathAbsolute(t *testing.T) {
	w := NewCSVWriter("/base")
	assert.Equal(t, "/tmp/x.csv", w.resolvePath("/tmp/x.csv"))
	assert.Equal(t, filepath.Join("/base", "x.csv"), w.resolvePath("x.csv"))
}

func TestTimeseriesRecords(t *testing.T) {
	buckets := []aggregate.PeriodTotal{
		{Series: aggregate.SeriesDaily, Label: "2010-12-01", Start: time.Date(2010, 12, 1, 0, 0, 0, 0, time.UTC), Total: 10.5},
		{Series: aggregate.SeriesMonthly, Label: "2010-12", Start: time.Date(2010, 12, 1, 0, 0, 0, 0, time.UTC), Total: 10.5},
	}

	headers, records := TimeseriesRecords(buckets)
	assert.Equal(t, []string{"series", "period", "period_date", "total_spend"}, headers)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"daily", "2010-12-01", "2010-12-01", "10.50"}, records[0])
	assert.Equal(t, []string{"monthly", "2010-12", "2010-12-01", "10.50"}, records[1])
}

func TestKeyTotalRecords(t *testing.T) {
	totals := []aggregate.KeyTotal{
		{Key: "13085", Amount: 100.256, Lines: 3},
		{Key: "", Amount: -5, Lines: 1},
	}

	headers, records := KeyTotalRecords("customer_id", totals)
	assert.Equal(t, []string{"customer_id", "total_spend", "lines"}, headers)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"13085", "100.26", "3"}, records[0])
	assert.Equal(t, []string{"", "-5.00", "1"}, records[1])
}
