package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryanOD95/data-workshops/internal/dataset"
)

func testFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	now := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)
	f, err := dataset.New(
		dataset.Column{Name: "empty", Values: []dataset.Value{dataset.Null(), dataset.Null()}},
		dataset.Column{Name: "when", Values: []dataset.Value{dataset.TimeVal(now), dataset.Null()}},
		dataset.Column{Name: "country", Values: []dataset.Value{dataset.String("UK"), dataset.String("France")}},
		dataset.Column{Name: "cancelled", Values: []dataset.Value{dataset.Bool(false), dataset.Bool(true)}},
		dataset.Column{Name: "price", Values: []dataset.Value{dataset.Float(2.5), dataset.Float(0.85)}},
		dataset.Column{Name: "qty", Values: []dataset.Value{dataset.Int(5), dataset.Null()}},
	)
	require.NoError(t, err)
	return f
}

func TestClassifyBuckets(t *testing.T) {
	c := Classify(testFrame(t))

	assert.Equal(t, LabelNA, c.Label("empty"))
	assert.Equal(t, LabelDatetime, c.Label("when"))
	assert.Equal(t, LabelDiscrete, c.Label("country"))
	assert.Equal(t, LabelLogical, c.Label("cancelled"))
	assert.Equal(t, LabelContinuous, c.Label("price"))
	assert.Equal(t, LabelContinuous, c.Label("qty"))
}

func TestClassifyPartition(t *testing.T) {
	f := testFrame(t)
	c := Classify(f)

	// Union of buckets equals the column set, with no overlap.
	seen := make(map[string]int)
	total := 0
	for _, label := range Labels() {
		for _, name := range c.Bucket(label) {
			seen[name]++
			total++
		}
	}
	assert.Equal(t, f.NumCols(), total)
	for _, name := range f.ColumnNames() {
		assert.Equal(t, 1, seen[name], name)
	}
}

func TestClassifyCategoricalMetadataWins(t *testing.T) {
	// Numeric cells with level metadata are still categorical.
	f, err := dataset.New(dataset.Column{
		Name:   "size_code",
		Values: []dataset.Value{dataset.Int(1), dataset.Int(2), dataset.Int(1)},
		Levels: []string{"1", "2"},
	})
	require.NoError(t, err)

	c := Classify(f)
	assert.Equal(t, LabelDiscrete, c.Label("size_code"))
}

func TestClassifyMixedFallsThroughToContinuous(t *testing.T) {
	// A column mixing numbers and times has no matching rule; it lands in
	// the fallthrough bucket.
	f, err := dataset.New(dataset.Column{
		Name:   "odd",
		Values: []dataset.Value{dataset.Float(1), dataset.TimeVal(time.Now())},
	})
	require.NoError(t, err)

	c := Classify(f)
	assert.Equal(t, LabelContinuous, c.Label("odd"))
}

func TestClassifyCounts(t *testing.T) {
	c := Classify(testFrame(t))
	counts := c.Counts()
	assert.Equal(t, 1, counts[LabelNA])
	assert.Equal(t, 2, counts[LabelContinuous])
}
