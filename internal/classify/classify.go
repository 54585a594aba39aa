// Package classify assigns each frame column to exactly one exploratory
// type bucket. The ordering is a policy choice: all-missing columns are
// recognized first, then datetimes, then text/categorical columns, then
// booleans, with numeric columns as the fallthrough. Text can therefore
// never be mistaken for numeric, and booleans are decided before generic
// numerics.
package classify

import (
	"github.com/BryanOD95/data-workshops/internal/dataset"
)

// Label is a column type bucket.
type Label string

const (
	LabelNA         Label = "na"
	LabelDatetime   Label = "datetime"
	LabelDiscrete   Label = "discrete"
	LabelLogical    Label = "logical"
	LabelContinuous Label = "continuous"
)

// Labels lists the buckets in classification order.
func Labels() []Label {
	return []Label{LabelNA, LabelDatetime, LabelDiscrete, LabelLogical, LabelContinuous}
}

// Classification maps every column of a frame to its bucket.
type Classification struct {
	order  []string
	labels map[string]Label
}

// Classify inspects each column and assigns its bucket. Every column gets
// exactly one label; the buckets partition the frame's columns.
func Classify(f *dataset.Frame) Classification {
	c := Classification{labels: make(map[string]Label, f.NumCols())}
	for _, name := range f.ColumnNames() {
		c.order = append(c.order, name)
		c.labels[name] = classifyColumn(f.Column(name))
	}
	return c
}

// classifyColumn applies the ordered rules; first match wins.
func classifyColumn(col *dataset.Column) Label {
	var (
		nonNull int
		allTime = true
		allText = true
		allBool = true
	)
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		nonNull++
		if v.Kind != dataset.KindTime {
			allTime = false
		}
		if v.Kind != dataset.KindString {
			allText = false
		}
		if v.Kind != dataset.KindBool {
			allBool = false
		}
	}

	switch {
	case nonNull == 0:
		return LabelNA
	case allTime:
		return LabelDatetime
	case len(col.Levels) > 0 || allText:
		return LabelDiscrete
	case allBool:
		return LabelLogical
	default:
		return LabelContinuous
	}
}

// Label returns the bucket for a column; unknown columns report continuous,
// the classifier's fallthrough bucket.
func (c Classification) Label(column string) Label {
	if l, ok := c.labels[column]; ok {
		return l
	}
	return LabelContinuous
}

// Columns returns all classified column names in frame order.
func (c Classification) Columns() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Bucket returns the columns assigned to a label, in frame order.
func (c Classification) Bucket(l Label) []string {
	var out []string
	for _, name := range c.order {
		if c.labels[name] == l {
			out = append(out, name)
		}
	}
	return out
}

// Counts returns the number of columns per bucket.
func (c Classification) Counts() map[Label]int {
	counts := make(map[Label]int, len(c.labels))
	for _, l := range c.labels {
		counts[l]++
	}
	return counts
}
