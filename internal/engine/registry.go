package engine

import (
	"github.com/dshills/textcore/internal/mode"
	"github.com/dshills/textcore/internal/mode/css"
	"github.com/dshills/textcore/internal/mode/javascript"
	"github.com/dshills/textcore/internal/mode/luamode"
)

// DefaultRegistry returns a registry holding the built-in modes:
// text/plain, javascript, json, css and the Lua-scripted properties mode.
func DefaultRegistry() *mode.Registry {
	r := mode.NewRegistry()
	r.Register(DefaultMode, mode.NewPlain, "plain", "text")
	r.Register(javascript.Name, javascript.New, "text/javascript", "application/javascript", "js")
	r.Register("json", javascript.NewJSON, "application/json")
	r.Register(css.Name, css.New, "text/css")
	r.Register(luamode.PropertiesName, luamode.Properties(), "text/x-properties", "ini")
	return r
}
