package sandbox

import (
	"math"

	"github.com/doomspork/luagents/core"
	lua "github.com/yuin/gopher-lua"
)

// ToLua encodes a core value as a Lua value. Lists become 1-indexed tables,
// maps become string-keyed tables. The conversion is total.
func ToLua(L *lua.LState, v core.Value) lua.LValue {
	switch x := core.Normalize(v).(type) {
	case core.Bool:
		return lua.LBool(x)
	case core.Number:
		return lua.LNumber(x)
	case core.String:
		return lua.LString(x)
	case core.List:
		tbl := L.CreateTable(len(x), 0)
		for i, item := range x {
			tbl.RawSetInt(i+1, ToLua(L, item))
		}
		return tbl
	case core.Map:
		tbl := L.CreateTable(0, len(x))
		for k, item := range x {
			tbl.RawSetString(k, ToLua(L, item))
		}
		return tbl
	default:
		return lua.LNil
	}
}

// FromLua decodes a Lua value into a core value. A table whose keys are
// exactly 1..N decodes as a List (an empty table is an empty List); any
// other table decodes as a Map with non-string keys stringified. Functions,
// userdata, threads and channels decode to Nil, as does a table reached
// again through a reference cycle. The conversion is total.
func FromLua(v lua.LValue) core.Value {
	return fromLua(v, map[*lua.LTable]bool{})
}

func fromLua(v lua.LValue, path map[*lua.LTable]bool) core.Value {
	if v == nil {
		return core.Nil{}
	}
	switch v.Type() {
	case lua.LTBool:
		return core.Bool(lua.LVAsBool(v))
	case lua.LTNumber:
		return core.Number(v.(lua.LNumber))
	case lua.LTString:
		return core.String(v.(lua.LString))
	case lua.LTTable:
		tbl := v.(*lua.LTable)
		if path[tbl] {
			return core.Nil{}
		}
		path[tbl] = true
		defer delete(path, tbl)
		return tableFromLua(tbl, path)
	default:
		return core.Nil{}
	}
}

func tableFromLua(tbl *lua.LTable, path map[*lua.LTable]bool) core.Value {
	if n, ok := sequenceLen(tbl); ok {
		list := make(core.List, n)
		for i := 1; i <= n; i++ {
			list[i-1] = fromLua(tbl.RawGetInt(i), path)
		}
		return list
	}

	m := core.Map{}
	tbl.ForEach(func(k, item lua.LValue) {
		m[keyString(k)] = fromLua(item, path)
	})
	return m
}

// sequenceLen reports whether every key of tbl is an integer in 1..N with
// no gaps, returning N.
func sequenceLen(tbl *lua.LTable) (int, bool) {
	count, maxIdx := 0, 0
	contiguous := true
	tbl.ForEach(func(k, _ lua.LValue) {
		count++
		if !contiguous {
			return
		}
		num, ok := k.(lua.LNumber)
		f := float64(num)
		if !ok || f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
			contiguous = false
			return
		}
		if int(f) > maxIdx {
			maxIdx = int(f)
		}
	})
	if !contiguous || maxIdx != count {
		return 0, false
	}
	return count, true
}

func keyString(k lua.LValue) string {
	switch k.Type() {
	case lua.LTString:
		return string(k.(lua.LString))
	case lua.LTNumber:
		return core.FormatNumber(float64(k.(lua.LNumber)))
	case lua.LTBool:
		if lua.LVAsBool(k) {
			return "true"
		}
		return "false"
	default:
		return k.String()
	}
}
