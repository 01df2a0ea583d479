package luamode

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// newSandbox creates a Lua state with only the safe standard libraries.
func newSandbox() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			L.Close()
			return nil, fmt.Errorf("%w: opening %s: %w", ErrScript, lib.name, err)
		}
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L, nil
}

// copyTable returns a one-level copy of t.
func copyTable(L *lua.LState, t *lua.LTable) *lua.LTable {
	out := L.NewTable()
	t.ForEach(func(k, v lua.LValue) {
		out.RawSet(k, v)
	})
	return out
}

// equalTables compares two tables one level deep. Nested tables are
// compared by identity.
func equalTables(a, b *lua.LTable) bool {
	if a == b {
		return true
	}
	n := 0
	equal := true
	a.ForEach(func(k, v lua.LValue) {
		n++
		if equal && b.RawGet(k) != v {
			equal = false
		}
	})
	if !equal {
		return false
	}
	m := 0
	b.ForEach(func(lua.LValue, lua.LValue) { m++ })
	return n == m
}

// toLua converts a scalar Go option value.
func toLua(v any) (lua.LValue, bool) {
	switch x := v.(type) {
	case string:
		return lua.LString(x), true
	case bool:
		return lua.LBool(x), true
	case int:
		return lua.LNumber(x), true
	case int64:
		return lua.LNumber(x), true
	case float64:
		return lua.LNumber(x), true
	}
	return lua.LNil, false
}
