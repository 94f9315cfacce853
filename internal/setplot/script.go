package setplot

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// runScript executes a Lua setplot script. The script declares figures by
// calling figure{name=..., kind=..., component=..., title=..., ylim={lo, hi}}.
func runScript(name, src string) (*PlotConfig, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.TabLibName, lua.OpenTable},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	cfg := &PlotConfig{}
	L.SetGlobal("figure", L.NewFunction(func(L *lua.LState) int {
		t := L.CheckTable(1)
		fig, err := figureFromTable(t)
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		cfg.Figures = append(cfg.Figures, fig)
		L.Push(lua.LNumber(len(cfg.Figures) - 1))
		return 1
	}))

	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return nil, err
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

func figureFromTable(t *lua.LTable) (Figure, error) {
	var f Figure
	var err error
	t.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("figure fields must be named, got key %s", k.String())
			return
		}
		switch string(key) {
		case "name":
			f.Name = lua.LVAsString(v)
		case "kind":
			f.Kind = lua.LVAsString(v)
		case "title":
			f.Title = lua.LVAsString(v)
		case "component":
			f.Component = int(lua.LVAsNumber(v))
		case "width":
			f.Width = int(lua.LVAsNumber(v))
		case "height":
			f.Height = int(lua.LVAsNumber(v))
		case "ylim":
			lim, ok := v.(*lua.LTable)
			if !ok {
				err = fmt.Errorf("ylim must be a table")
				return
			}
			for i := 1; i <= lim.Len(); i++ {
				f.YLim = append(f.YLim, float64(lua.LVAsNumber(lim.RawGetInt(i))))
			}
		default:
			err = fmt.Errorf("unknown figure field %q", string(key))
		}
	})
	return f, err
}
