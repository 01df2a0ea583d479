package luamode

import (
	"regexp"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textcore/internal/mode"
)

const streamTypeName = "textcore.stream"

// registerStream installs the stream metatable.
func (m *Mode) registerStream() {
	mt := m.L.NewTypeMetatable(streamTypeName)
	m.L.SetField(mt, "__index", m.L.SetFuncs(m.L.NewTable(), map[string]lua.LGFunction{
		"peek":        streamPeek,
		"next":        streamNext,
		"eat":         streamEat,
		"eatAny":      streamEatAny,
		"eatWhile":    streamEatWhile,
		"eatSpace":    streamEatSpace,
		"skipToEnd":   streamSkipToEnd,
		"skipTo":      streamSkipTo,
		"match":       streamMatch,
		"matchRegexp": m.streamMatchRegexp,
		"backUp":      streamBackUp,
		"current":     streamCurrent,
		"sol":         streamSOL,
		"eol":         streamEOL,
		"column":      streamColumn,
		"indentation": streamIndentation,
		"pos":         streamPos,
	}))
}

func (m *Mode) newStreamValue(s *mode.Stream) *lua.LUserData {
	ud := m.L.NewUserData()
	ud.Value = s
	m.L.SetMetatable(ud, m.L.GetTypeMetatable(streamTypeName))
	return ud
}

// checkStream returns the stream behind argument 1. The userdata is
// detached after each token call, so a stream kept by a script is dead.
func checkStream(L *lua.LState) *mode.Stream {
	ud := L.CheckUserData(1)
	s, ok := ud.Value.(*mode.Stream)
	if !ok || s == nil {
		L.ArgError(1, "stream expected")
		return nil
	}
	return s
}

func pushRune(L *lua.LState, r rune) {
	if r == mode.EOF {
		L.Push(lua.LNil)
		return
	}
	L.Push(lua.LString(string(r)))
}

func firstRune(L *lua.LState, n int) rune {
	str := L.CheckString(n)
	r, _ := utf8.DecodeRuneInString(str)
	return r
}

func streamPeek(L *lua.LState) int {
	pushRune(L, checkStream(L).Peek())
	return 1
}

func streamNext(L *lua.LState) int {
	pushRune(L, checkStream(L).Next())
	return 1
}

func streamEat(L *lua.LState) int {
	s := checkStream(L)
	L.Push(lua.LBool(s.Eat(firstRune(L, 2))))
	return 1
}

func streamEatAny(L *lua.LState) int {
	s := checkStream(L)
	L.Push(lua.LBool(s.EatAny(L.CheckString(2))))
	return 1
}

func streamEatWhile(L *lua.LState) int {
	s := checkStream(L)
	L.Push(lua.LBool(s.EatWhile(L.CheckString(2))))
	return 1
}

func streamEatSpace(L *lua.LState) int {
	L.Push(lua.LBool(checkStream(L).EatSpace()))
	return 1
}

func streamSkipToEnd(L *lua.LState) int {
	checkStream(L).SkipToEnd()
	return 0
}

func streamSkipTo(L *lua.LState) int {
	s := checkStream(L)
	L.Push(lua.LBool(s.SkipTo(firstRune(L, 2))))
	return 1
}

// streamMatch is match(str, consume = true, caseFold = false).
func streamMatch(L *lua.LState) int {
	s := checkStream(L)
	str := L.CheckString(2)
	consume := L.OptBool(3, true)
	fold := L.OptBool(4, false)
	L.Push(lua.LBool(s.Match(str, consume, fold)))
	return 1
}

// streamMatchRegexp is matchRegexp(pattern, consume = true). It returns a
// table of captures, index 1 holding the whole match, or nil.
func (m *Mode) streamMatchRegexp(L *lua.LState) int {
	s := checkStream(L)
	pattern := L.CheckString(2)
	consume := L.OptBool(3, true)

	re, err := m.compile(pattern)
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	groups := s.MatchRegexp(re, consume)
	if groups == nil {
		L.Push(lua.LNil)
		return 1
	}
	t := L.CreateTable(len(groups), 0)
	for _, g := range groups {
		t.Append(lua.LString(g))
	}
	L.Push(t)
	return 1
}

func streamBackUp(L *lua.LState) int {
	s := checkStream(L)
	s.BackUp(L.CheckInt(2))
	return 0
}

func streamCurrent(L *lua.LState) int {
	L.Push(lua.LString(checkStream(L).Current()))
	return 1
}

func streamSOL(L *lua.LState) int {
	L.Push(lua.LBool(checkStream(L).SOL()))
	return 1
}

func streamEOL(L *lua.LState) int {
	L.Push(lua.LBool(checkStream(L).EOL()))
	return 1
}

func streamColumn(L *lua.LState) int {
	L.Push(lua.LNumber(checkStream(L).Column()))
	return 1
}

func streamIndentation(L *lua.LState) int {
	L.Push(lua.LNumber(checkStream(L).Indentation()))
	return 1
}

func streamPos(L *lua.LState) int {
	L.Push(lua.LNumber(checkStream(L).Pos()))
	return 1
}

// compile caches compiled patterns. Patterns need no anchor: a match
// must start at the read position anyway.
func (m *Mode) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := m.patterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	m.patterns[pattern] = re
	return re, nil
}
