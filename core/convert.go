package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// FromGo converts a native Go value into a Value. The conversion is total:
// anything that cannot be represented (channels, functions, values failing
// JSON encoding) collapses to Nil.
func FromGo(v any) Value {
	switch x := v.(type) {
	case nil:
		return Nil{}
	case Value:
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Number(x)
	case int8:
		return Number(x)
	case int16:
		return Number(x)
	case int32:
		return Number(x)
	case int64:
		return Number(x)
	case uint:
		return Number(x)
	case uint8:
		return Number(x)
	case uint16:
		return Number(x)
	case uint32:
		return Number(x)
	case uint64:
		return Number(x)
	case float32:
		return Number(x)
	case float64:
		return Number(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(f)
	case []any:
		list := make(List, len(x))
		for i, item := range x {
			list[i] = FromGo(item)
		}
		return list
	case []string:
		list := make(List, len(x))
		for i, item := range x {
			list[i] = String(item)
		}
		return list
	case map[string]any:
		m := make(Map, len(x))
		for k, item := range x {
			m[k] = FromGo(item)
		}
		return m
	case map[string]string:
		m := make(Map, len(x))
		for k, item := range x {
			m[k] = String(item)
		}
		return m
	}

	// Structs, typed slices and maps: go through the JSON shape.
	raw, err := json.Marshal(v)
	if err != nil {
		return Nil{}
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Nil{}
	}
	return FromGo(generic)
}

// ToGo converts a Value into plain Go data: nil, bool, float64, string,
// []any or map[string]any.
func ToGo(v Value) any {
	switch x := Normalize(v).(type) {
	case Bool:
		return bool(x)
	case Number:
		return float64(x)
	case String:
		return string(x)
	case List:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = ToGo(item)
		}
		return out
	case Map:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = ToGo(item)
		}
		return out
	default:
		return nil
	}
}

// Format renders a Value as host text. Strings are returned verbatim,
// integral numbers print without a fraction (matching Lua's tostring), and
// tables are rendered as JSON.
func Format(v Value) string {
	switch x := Normalize(v).(type) {
	case Nil:
		return "nil"
	case Bool:
		return strconv.FormatBool(bool(x))
	case Number:
		return FormatNumber(float64(x))
	case String:
		return string(x)
	default:
		raw, err := json.Marshal(ToGo(x))
		if err != nil {
			return fmt.Sprintf("%v", ToGo(x))
		}
		return string(raw)
	}
}

// FormatNumber formats f the way Lua's tostring does for numbers.
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', 14, 64)
}
