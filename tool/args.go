package tool

import (
	"strconv"

	"github.com/doomspork/luagents/core"
)

// Args are the positional arguments of a tool call. Accessors are lenient:
// out-of-range indexes and mismatched kinds yield the zero value, since
// Invoke has already validated declared parameters.
type Args []core.Value

// Len returns the number of arguments.
func (a Args) Len() int { return len(a) }

// Value returns the i-th argument or Nil.
func (a Args) Value(i int) core.Value {
	if i < 0 || i >= len(a) {
		return core.Nil{}
	}
	return core.Normalize(a[i])
}

// Number returns the i-th argument as a float64. Numeric strings are
// converted the way Lua coerces them.
func (a Args) Number(i int) float64 {
	switch v := a.Value(i).(type) {
	case core.Number:
		return float64(v)
	case core.String:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Int returns the i-th argument truncated to an int.
func (a Args) Int(i int) int { return int(a.Number(i)) }

// String returns the i-th argument as a string; non-string scalars are
// formatted, nil yields "".
func (a Args) String(i int) string {
	v := a.Value(i)
	if core.IsNil(v) {
		return ""
	}
	return core.Format(v)
}

// Bool returns the i-th argument's truthiness using Lua rules: only nil and
// false are false.
func (a Args) Bool(i int) bool {
	switch v := a.Value(i).(type) {
	case core.Nil:
		return false
	case core.Bool:
		return bool(v)
	default:
		return true
	}
}

// List returns the i-th argument as a List, or nil.
func (a Args) List(i int) core.List {
	l, _ := a.Value(i).(core.List)
	return l
}

// Map returns the i-th argument as a Map, or nil.
func (a Args) Map(i int) core.Map {
	m, _ := a.Value(i).(core.Map)
	return m
}

// Go returns all arguments converted to plain Go data.
func (a Args) Go() []any {
	out := make([]any, len(a))
	for i, v := range a {
		out[i] = core.ToGo(v)
	}
	return out
}
