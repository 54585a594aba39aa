package charts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryanOD95/data-workshops/internal/classify"
	"github.com/BryanOD95/data-workshops/internal/dataset"
)

func TestLevelCountsTopNAndOther(t *testing.T) {
	values := []dataset.Value{
		dataset.String("a"), dataset.String("a"), dataset.String("a"),
		dataset.String("b"), dataset.String("b"),
		dataset.String("c"),
		dataset.Null(),
	}

	got := levelCounts(values, nil, 2, 24)
	require.Len(t, got, 3)
	assert.Equal(t, levelCount{Label: "a", Count: 3}, got[0])
	assert.Equal(t, levelCount{Label: "b", Count: 2}, got[1])
	assert.Equal(t, levelCount{Label: "other", Count: 1}, got[2])
}

func TestLevelCountsTruncatesLabels(t *testing.T) {
	values := []dataset.Value{dataset.String("WHITE HANGING HEART T-LIGHT HOLDER")}
	got := levelCounts(values, nil, 10, 12)
	require.Len(t, got, 1)
	assert.Equal(t, "WHITE HAN...", got[0].Label)
	assert.Len(t, []rune(got[0].Label), 12)
}

func TestTruncateLabelShortLabelsUntouched(t *testing.T) {
	assert.Equal(t, "short", truncateLabel("short", 24))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "invoice_month", slug("invoice_month"))
	assert.Equal(t, "year_2009_2010", slug("Year 2009-2010"))
	assert.Equal(t, "all", slug("all"))
}

func TestNumericAndTimeValues(t *testing.T) {
	values := []dataset.Value{
		dataset.Int(2), dataset.Float(1.5), dataset.Null(), dataset.String("x"),
	}
	assert.Equal(t, []float64{2, 1.5}, numericValues(values))

	when := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := timeValues([]dataset.Value{dataset.TimeVal(when), dataset.Null()})
	require.Len(t, ts, 1)
	assert.Equal(t, float64(when.Unix()), ts[0])
}

func TestRenderAllWritesCharts(t *testing.T) {
	f, err := dataset.New(
		dataset.Column{Name: "country", Values: []dataset.Value{
			dataset.String("UK"), dataset.String("UK"), dataset.String("France"), dataset.String("France"),
		}},
		dataset.Column{Name: "price", Values: []dataset.Value{
			dataset.Float(1), dataset.Float(2), dataset.Float(3), dataset.Float(4),
		}},
		dataset.Column{Name: "excel_sheet", Values: []dataset.Value{
			dataset.String("S1"), dataset.String("S1"), dataset.String("S2"), dataset.String("S2"),
		}},
		dataset.Column{Name: "row_id", Values: []dataset.Value{
			dataset.String("1"), dataset.String("2"), dataset.String("3"), dataset.String("4"),
		}},
	)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "charts")
	r := NewRenderer(dir, DefaultOptions(), nil)

	n, err := r.RenderAll(context.Background(), f, classify.Classify(f),
		map[string]bool{"row_id": true}, "excel_sheet")
	require.NoError(t, err)

	// country and price, each unconditioned plus two sheet facets.
	assert.Equal(t, 6, n)
	for _, name := range []string{
		"country_all.png", "country_s1.png", "country_s2.png",
		"price_all.png", "price_s1.png", "price_s2.png",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}
