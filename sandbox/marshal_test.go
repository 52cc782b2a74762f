package sandbox

import (
	"testing"

	"github.com/doomspork/luagents/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func eval(t *testing.T, L *lua.LState, expr string) lua.LValue {
	t.Helper()
	require.NoError(t, L.DoString("__v = "+expr))
	return L.GetGlobal("__v")
}

func TestMarshal_RoundTrip(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tests := []struct {
		name string
		in   core.Value
	}{
		{name: "list of numbers", in: core.List{core.Number(1), core.Number(2), core.Number(3)}},
		{name: "map", in: core.Map{"a": core.Number(1), "b": core.Number(2)}},
		{name: "string", in: core.String("hello")},
		{name: "bool", in: core.Bool(true)},
		{name: "number", in: core.Number(2.5)},
		{name: "nil", in: core.Nil{}},
		{name: "nested", in: core.Map{
			"items": core.List{core.String("x"), core.Map{"deep": core.Bool(false)}},
			"count": core.Number(2),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.in, FromLua(ToLua(L, tt.in)))
		})
	}
}

func TestToLua_ListIsOneIndexed(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("xs", ToLua(L, core.List{core.String("a"), core.String("b")}))
	require.NoError(t, L.DoString(`first, n = xs[1], #xs`))

	assert.Equal(t, lua.LString("a"), L.GetGlobal("first"))
	assert.Equal(t, lua.LNumber(2), L.GetGlobal("n"))
}

func TestFromLua_TableShapes(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tests := []struct {
		name string
		expr string
		want core.Value
	}{
		{
			name: "empty table is empty list",
			expr: `{}`,
			want: core.List{},
		},
		{
			name: "explicit contiguous keys",
			expr: `{[2] = "b", [1] = "a"}`,
			want: core.List{core.String("a"), core.String("b")},
		},
		{
			name: "hole makes a map",
			expr: `{[1] = "a", [3] = "c"}`,
			want: core.Map{"1": core.String("a"), "3": core.String("c")},
		},
		{
			name: "mixed keys stringified",
			expr: `{10, 20, name = "x"}`,
			want: core.Map{"1": core.Number(10), "2": core.Number(20), "name": core.String("x")},
		},
		{
			name: "zero index is not a sequence",
			expr: `{[0] = "z", [1] = "a"}`,
			want: core.Map{"0": core.String("z"), "1": core.String("a")},
		},
		{
			name: "fractional and boolean keys",
			expr: `{[1.5] = 1, [true] = 2}`,
			want: core.Map{"1.5": core.Number(1), "true": core.Number(2)},
		},
		{
			name: "function values collapse to nil",
			expr: `{f = function() end}`,
			want: core.Map{"f": core.Nil{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromLua(eval(t, L, tt.expr)))
		})
	}
}

func TestFromLua_NonSerializable(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	assert.Equal(t, core.Nil{}, FromLua(eval(t, L, `function() end`)))
	assert.Equal(t, core.Nil{}, FromLua(L.NewUserData()))
	assert.Equal(t, core.Nil{}, FromLua(nil))
}

func TestFromLua_Cycle(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	require.NoError(t, L.DoString(`t = {name = "root"}; t.self = t`))

	got := FromLua(L.GetGlobal("t"))
	assert.Equal(t, core.Map{"name": core.String("root"), "self": core.Nil{}}, got)
}

func TestFromLua_SharedReferenceIsNotACycle(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	require.NoError(t, L.DoString(`local s = {1}; t = {a = s, b = s}`))

	got := FromLua(L.GetGlobal("t"))
	want := core.Map{"a": core.List{core.Number(1)}, "b": core.List{core.Number(1)}}
	assert.Equal(t, want, got)
}
