package core

import (
	"sort"
)

// Kind identifies the concrete variant held by a Value.
type Kind int

const (
	// KindNil is the absent value (Lua nil).
	KindNil Kind = iota
	// KindBool is a boolean.
	KindBool
	// KindNumber is a float64 number (Lua has a single number type).
	KindNumber
	// KindString is a UTF-8 string.
	KindString
	// KindList is an ordered sequence (a Lua table keyed 1..N).
	KindList
	// KindMap is a string-keyed table.
	KindMap
)

// String returns the Lua-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList, KindMap:
		return "table"
	default:
		return "unknown"
	}
}

// Value is the dynamic value domain shared by scripts and host tools. Concrete
// variants implement the unexported isValue marker, making the set closed:
// Nil, Bool, Number, String, List and Map.
type Value interface {
	isValue()
	Kind() Kind
}

// Nil is the absent value.
type Nil struct{}

func (Nil) isValue() {}

// Kind implements Value.
func (Nil) Kind() Kind { return KindNil }

// Bool is a boolean value.
type Bool bool

func (Bool) isValue() {}

// Kind implements Value.
func (Bool) Kind() Kind { return KindBool }

// Number is a numeric value.
type Number float64

func (Number) isValue() {}

// Kind implements Value.
func (Number) Kind() Kind { return KindNumber }

// String is a string value.
type String string

func (String) isValue() {}

// Kind implements Value.
func (String) Kind() Kind { return KindString }

// List is an ordered sequence of values. Index 0 maps to Lua index 1.
type List []Value

func (List) isValue() {}

// Kind implements Value.
func (List) Kind() Kind { return KindList }

// Map is a string-keyed table.
type Map map[string]Value

func (Map) isValue() {}

// Kind implements Value.
func (Map) Kind() Kind { return KindMap }

// Keys returns the map keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsNil reports whether v is absent. A nil interface counts as absent.
func IsNil(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Nil)
	return ok
}

// Normalize maps a nil interface to Nil so callers can switch on Kind safely.
func Normalize(v Value) Value {
	if v == nil {
		return Nil{}
	}
	return v
}
