package dataset

import (
	"fmt"
	"strings"
)

// Column is a named slice of cells with optional categorical level
// metadata. Levels, when set, list the distinct labels in first-seen order
// and mark the column as categorical regardless of cell kinds.
type Column struct {
	Name   string
	Values []Value
	Levels []string
}

// DistinctNonNull returns the number of distinct non-null cells.
func (c *Column) DistinctNonNull() int {
	seen := make(map[string]struct{}, len(c.Values))
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		seen[v.Render()] = struct{}{}
	}
	return len(seen)
}

// MissingCount returns the number of null cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// Frame is an ordered collection of equal-length columns.
type Frame struct {
	cols  []Column
	index map[string]int
}

// New builds a frame from columns, enforcing uniform length.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := f.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// NumRows returns the row count (0 for an empty frame).
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Values)
}

// NumCols returns the column count.
func (f *Frame) NumCols() int {
	return len(f.cols)
}

// ColumnNames returns the column names in frame order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil when absent.
func (f *Frame) Column(name string) *Column {
	i, ok := f.index[name]
	if !ok {
		return nil
	}
	return &f.cols[i]
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// AddColumn appends a column, enforcing uniform length and unique names.
func (f *Frame) AddColumn(c Column) error {
	if _, exists := f.index[c.Name]; exists {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if len(f.cols) > 0 && len(c.Values) != f.NumRows() {
		return fmt.Errorf("column %q has %d rows, frame has %d", c.Name, len(c.Values), f.NumRows())
	}
	f.index[c.Name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// DropColumn removes the named column; missing names are a no-op.
func (f *Frame) DropColumn(name string) {
	i, ok := f.index[name]
	if !ok {
		return
	}
	f.cols = append(f.cols[:i], f.cols[i+1:]...)
	delete(f.index, name)
	for j := i; j < len(f.cols); j++ {
		f.index[f.cols[j].Name] = j
	}
}

// RenameColumn renames a column in place, keeping its position.
func (f *Frame) RenameColumn(from, to string) error {
	i, ok := f.index[from]
	if !ok {
		return fmt.Errorf("no column %q", from)
	}
	if from == to {
		return nil
	}
	if _, exists := f.index[to]; exists {
		return fmt.Errorf("column %q already exists", to)
	}
	f.cols[i].Name = to
	delete(f.index, from)
	f.index[to] = i
	return nil
}

// Select returns a new frame containing the given rows, in the given order.
// Row indices must be valid; this is an internal building block for filters.
func (f *Frame) Select(rows []int) *Frame {
	out := &Frame{index: make(map[string]int, len(f.cols))}
	for _, c := range f.cols {
		values := make([]Value, len(rows))
		for i, r := range rows {
			values[i] = c.Values[r]
		}
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, Column{Name: c.Name, Values: values, Levels: c.Levels})
	}
	return out
}

// DropDuplicates removes rows that repeat an earlier row's composite key,
// keeping the first occurrence in row order. It returns the deduplicated
// frame and the number of rows removed. Key cells render through the
// snapshot formatting so typed and re-read frames dedupe identically.
func (f *Frame) DropDuplicates(keys ...string) (*Frame, int, error) {
	cols := make([]*Column, len(keys))
	for i, k := range keys {
		c := f.Column(k)
		if c == nil {
			return nil, 0, fmt.Errorf("dedup key column %q not found", k)
		}
		cols[i] = c
	}

	seen := make(map[string]struct{}, f.NumRows())
	keep := make([]int, 0, f.NumRows())
	var sb strings.Builder
	for r := 0; r < f.NumRows(); r++ {
		sb.Reset()
		for i, c := range cols {
			if i > 0 {
				sb.WriteByte(0x1f)
			}
			sb.WriteString(c.Values[r].Render())
		}
		key := sb.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, r)
	}

	removed := f.NumRows() - len(keep)
	if removed == 0 {
		return f, 0, nil
	}
	return f.Select(keep), removed, nil
}
