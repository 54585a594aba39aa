package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BryanOD95/data-workshops/internal/config"
)

// ReadCSV loads a tabular snapshot from disk, inferring a single type per
// column: every cell of a column must parse as bool, int, float, or
// timestamp for the column to take that type; otherwise it stays text.
// Empty cells are null and do not vote.
func ReadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	// Remove BOM if present
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("snapshot %s has no header row", path)
	}

	header := records[0]
	rows := records[1:]

	frame := &Frame{index: make(map[string]int, len(header))}
	for col, name := range header {
		raw := make([]string, len(rows))
		for r, record := range rows {
			if col < len(record) {
				raw[r] = record[col]
			}
		}
		if err := frame.AddColumn(Column{Name: name, Values: inferColumn(raw)}); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// Records renders the frame as a header row plus one string record per row,
// ready for CSV output.
func (f *Frame) Records() ([]string, [][]string) {
	header := f.ColumnNames()
	records := make([][]string, f.NumRows())
	for r := 0; r < f.NumRows(); r++ {
		record := make([]string, len(f.cols))
		for c := range f.cols {
			record[c] = f.cols[c].Values[r].Render()
		}
		records[r] = record
	}
	return header, records
}

// inferColumn types a raw string column by the strictest parse every
// non-empty cell passes, in the order bool, int, float, time, text.
func inferColumn(raw []string) []Value {
	allBool, allInt, allFloat, allTime := true, true, true, true
	nonEmpty := 0
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		nonEmpty++
		if allBool && !isBoolLiteral(s) {
			allBool = false
		}
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				allFloat = false
			}
		}
		if allTime {
			if _, err := parseSnapshotTime(s); err != nil {
				allTime = false
			}
		}
	}

	values := make([]Value, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			values[i] = Null()
			continue
		}
		switch {
		case nonEmpty > 0 && allBool:
			values[i] = Bool(strings.EqualFold(s, "true"))
		case nonEmpty > 0 && allInt:
			n, _ := strconv.ParseInt(s, 10, 64)
			values[i] = Int(n)
		case nonEmpty > 0 && allFloat:
			x, _ := strconv.ParseFloat(s, 64)
			values[i] = Float(x)
		case nonEmpty > 0 && allTime:
			t, _ := parseSnapshotTime(s)
			values[i] = TimeVal(t)
		default:
			values[i] = String(s)
		}
	}
	return values
}

// isBoolLiteral matches only the spellings the snapshot writer emits.
// Bare 0/1 stay numeric.
func isBoolLiteral(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

// parseSnapshotTime accepts the two layouts snapshots are written with.
func parseSnapshotTime(s string) (time.Time, error) {
	if t, err := time.Parse(config.SnapshotTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(config.SnapshotDateLayout, s)
}
