package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

var ErrInvalidValue = errors.New("model: invalid completion value")

// MaxAmount bounds every stored count, reward and target so a saved
// document always decodes again.
const MaxAmount = math.MaxInt32

// Value is a single completion log entry: a boolean for boolean habits or a
// non-negative count for numeric ones. The zero Value means "not completed".
type Value struct {
	numeric bool
	done    bool
	count   int
}

func BoolValue(done bool) Value {
	return Value{done: done}
}

func CountValue(n int) Value {
	if n < 0 {
		n = 0
	}
	return Value{numeric: true, count: n}
}

func (v Value) IsNumeric() bool { return v.numeric }

func (v Value) Truthy() bool {
	if v.numeric {
		return v.count > 0
	}
	return v.done
}

// Count returns the accumulated units; a true boolean counts as one.
func (v Value) Count() int {
	if v.numeric {
		return v.count
	}
	if v.done {
		return 1
	}
	return 0
}

func (v Value) String() string {
	if v.numeric {
		return strconv.Itoa(v.count)
	}
	return strconv.FormatBool(v.done)
}

func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch string(raw) {
	case "true":
		*v = BoolValue(true)
		return nil
	case "false", "null":
		*v = BoolValue(false)
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidValue, raw)
	}
	if f < 0 || f != math.Trunc(f) || f > MaxAmount {
		return fmt.Errorf("%w: %s", ErrInvalidValue, raw)
	}
	*v = CountValue(int(f))
	return nil
}

// DayLog maps item id to the value recorded on one calendar day.
type DayLog map[int64]Value

func (d DayLog) Get(id int64) Value {
	if d == nil {
		return Value{}
	}
	return d[id]
}

// Log is the sparse completion history keyed by local date (YYYY-MM-DD).
type Log map[string]DayLog

func (l Log) Day(date string) DayLog {
	if l == nil {
		return nil
	}
	return l[date]
}

func (l Log) Get(date string, id int64) Value {
	return l.Day(date).Get(id)
}

// Set records v for id on date. The receiver must be non-nil.
func (l Log) Set(date string, id int64, v Value) {
	day, ok := l[date]
	if !ok {
		day = make(DayLog)
		l[date] = day
	}
	day[id] = v
}

// Dates returns the logged dates in ascending order.
func (l Log) Dates() []string {
	out := make([]string, 0, len(l))
	for date := range l {
		out = append(out, date)
	}
	sort.Strings(out)
	return out
}

func (l Log) Clone() Log {
	out := make(Log, len(l))
	for date, day := range l {
		cp := make(DayLog, len(day))
		for id, v := range day {
			cp[id] = v
		}
		out[date] = cp
	}
	return out
}
