package dataset

import (
	"strconv"
	"time"

	"github.com/BryanOD95/data-workshops/internal/config"
)

// Kind identifies the concrete type carried by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindFloat
	KindInt
	KindBool
	KindTime
)

// Value is a single typed cell. The zero value is the null cell.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	I64  int64
	Flag bool
	Time time.Time
}

func Null() Value               { return Value{} }
func String(s string) Value     { return Value{Kind: KindString, Str: s} }
func Float(f float64) Value     { return Value{Kind: KindFloat, Num: f} }
func Int(i int64) Value         { return Value{Kind: KindInt, I64: i} }
func Bool(b bool) Value         { return Value{Kind: KindBool, Flag: b} }
func TimeVal(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// IsNull reports whether the cell is missing.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// AsFloat returns the numeric view of the cell. Int cells convert; other
// kinds report false.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.Num, true
	case KindInt:
		return float64(v.I64), true
	default:
		return 0, false
	}
}

// Render formats the cell for snapshot output. Null cells render empty.
func (v Value) Render() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindFloat:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindBool:
		return strconv.FormatBool(v.Flag)
	case KindTime:
		if h, m, s := v.Time.Clock(); h == 0 && m == 0 && s == 0 {
			return v.Time.Format(config.SnapshotDateLayout)
		}
		return v.Time.Format(config.SnapshotTimeLayout)
	default:
		return ""
	}
}

// Equal reports cell equality, comparing kinds and payloads.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindFloat:
		return v.Num == o.Num
	case KindInt:
		return v.I64 == o.I64
	case KindBool:
		return v.Flag == o.Flag
	case KindTime:
		return v.Time.Equal(o.Time)
	default:
		return true
	}
}
