package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromGo(t *testing.T) {
	type point struct {
		X int    `json:"x"`
		Y string `json:"y"`
	}

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{name: "nil", in: nil, want: Nil{}},
		{name: "string", in: "hi", want: String("hi")},
		{name: "bool", in: true, want: Bool(true)},
		{name: "int", in: 7, want: Number(7)},
		{name: "uint8", in: uint8(3), want: Number(3)},
		{name: "float32", in: float32(0.5), want: Number(0.5)},
		{name: "json number", in: json.Number("12.5"), want: Number(12.5)},
		{name: "value passthrough", in: List{Number(1)}, want: List{Number(1)}},
		{name: "slice of any", in: []any{1, "a", nil}, want: List{Number(1), String("a"), Nil{}}},
		{name: "string slice", in: []string{"a", "b"}, want: List{String("a"), String("b")}},
		{name: "map", in: map[string]any{"k": false}, want: Map{"k": Bool(false)}},
		{name: "string map", in: map[string]string{"k": "v"}, want: Map{"k": String("v")}},
		{name: "struct via json", in: point{X: 1, Y: "two"}, want: Map{"x": Number(1), "y": String("two")}},
		{name: "typed slice via json", in: []int{4, 5}, want: List{Number(4), Number(5)}},
		{name: "unencodable", in: make(chan int), want: Nil{}},
		{name: "function", in: func() {}, want: Nil{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromGo(tt.in))
		})
	}
}

func TestToGo(t *testing.T) {
	v := Map{
		"list": List{Number(1), String("x"), Nil{}},
		"flag": Bool(true),
	}

	want := map[string]any{
		"list": []any{1.0, "x", nil},
		"flag": true,
	}
	assert.Equal(t, want, ToGo(v))
	assert.Nil(t, ToGo(nil))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{name: "nil interface", in: nil, want: "nil"},
		{name: "nil", in: Nil{}, want: "nil"},
		{name: "bool", in: Bool(false), want: "false"},
		{name: "integral number", in: Number(5), want: "5"},
		{name: "negative integral", in: Number(-12), want: "-12"},
		{name: "fraction", in: Number(2.5), want: "2.5"},
		{name: "string verbatim", in: String("hello world"), want: "hello world"},
		{name: "list as json", in: List{Number(1), String("a")}, want: `[1,"a"]`},
		{name: "map as json", in: Map{"b": Number(2), "a": Bool(true)}, want: `{"a":true,"b":2}`},
		{name: "empty list", in: List{}, want: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "inf", FormatNumber(math.Inf(1)))
	assert.Equal(t, "-inf", FormatNumber(math.Inf(-1)))
	assert.Equal(t, "nan", FormatNumber(math.NaN()))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "0.1", FormatNumber(0.1))
	assert.Equal(t, "1e+15", FormatNumber(1e15))
	assert.Equal(t, "3.1415926535898", FormatNumber(math.Pi))
}
