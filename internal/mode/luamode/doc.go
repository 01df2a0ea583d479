// Package luamode runs modes written in Lua.
//
// A script defines up to three globals:
//
//	function startState() return {depth = 0} end
//	function token(stream, state, atLineStart) ... return "keyword" end
//	function indent(state, textAfter) return state.depth * config.indentUnit end
//
// token is required. startState defaults to an empty table and indent to
// "no opinion". The stream argument exposes the usual reader methods
// (peek, next, eat, eatAny, eatWhile, eatSpace, skipToEnd, skipTo, match,
// matchRegexp, backUp, current, sol, eol, column, indentation, pos).
// The read-only global config holds indentUnit, tabSize and the scalar
// mode options.
//
// Scripts run in a sandbox: only the base, table, string and math
// libraries are opened and the loaders dofile, loadfile, load and
// loadstring are removed. Each call is bounded by a timeout.
//
// States are Lua tables. Copies are one level deep, so nested tables are
// shared between a state and its copies and must be treated as immutable.
package luamode
