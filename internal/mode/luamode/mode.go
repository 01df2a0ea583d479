package luamode

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/mode"
)

// DefaultCallTimeout bounds a single call into the script.
const DefaultCallTimeout = 100 * time.Millisecond

// Mode is a mode implemented by a Lua script.
//
// A Lua state is not safe for concurrent use; Mode serializes calls.
type Mode struct {
	mu sync.Mutex

	L        *lua.LState
	name     string
	timeout  time.Duration
	logger   *logging.Logger
	patterns map[string]*regexp.Regexp

	token      lua.LValue
	startState lua.LValue
	indent     lua.LValue
}

// Option configures a Mode.
type Option func(*Mode)

// WithCallTimeout bounds each call into the script.
func WithCallTimeout(d time.Duration) Option {
	return func(m *Mode) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLogger sets the logger script failures are reported to.
func WithLogger(l *logging.Logger) Option {
	return func(m *Mode) {
		if l != nil {
			m.logger = l
		}
	}
}

// New loads script as the mode called name.
func New(name, script string, cfg mode.Config, opts ...Option) (*Mode, error) {
	L, err := newSandbox()
	if err != nil {
		return nil, err
	}

	m := &Mode{
		L:        L,
		name:     name,
		timeout:  DefaultCallTimeout,
		logger:   logging.Nop(),
		patterns: make(map[string]*regexp.Regexp),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithComponent("luamode").WithField("mode", name)

	m.registerStream()
	L.SetGlobal("config", configTable(L, cfg.WithDefaults()))

	if err := m.run(func() error { return L.DoString(script) }); err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: loading %s: %w", ErrScript, name, err)
	}

	m.token = L.GetGlobal("token")
	if m.token.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("%w: %s", ErrMissingToken, name)
	}
	if fn := L.GetGlobal("startState"); fn.Type() == lua.LTFunction {
		m.startState = fn
	}
	if fn := L.GetGlobal("indent"); fn.Type() == lua.LTFunction {
		m.indent = fn
	}
	return m, nil
}

// NewFromFile loads the script at path.
func NewFromFile(name, path string, cfg mode.Config, opts ...Option) (*Mode, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lua mode %s: %w", path, err)
	}
	return New(name, string(src), cfg, opts...)
}

// Factory returns a mode.Factory that loads script for every new mode.
func Factory(name, script string, opts ...Option) mode.Factory {
	return func(cfg mode.Config) (mode.Mode, error) {
		return New(name, script, cfg, opts...)
	}
}

func configTable(L *lua.LState, cfg mode.Config) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("indentUnit", lua.LNumber(cfg.IndentUnit))
	t.RawSetString("tabSize", lua.LNumber(cfg.TabSize))
	for k, v := range cfg.Options {
		if lv, ok := toLua(v); ok {
			t.RawSetString(k, lv)
		}
	}
	return t
}

// Name returns the registered name of the mode.
func (m *Mode) Name() string { return m.name }

// Close releases the Lua state.
func (m *Mode) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.L.Close()
		m.L = nil
	}
}

// StartState calls startState or returns an empty table.
func (m *Mode) StartState() mode.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.L == nil {
		return &State{}
	}
	if m.startState != nil {
		ret, err := m.call(m.startState)
		if err != nil {
			m.logger.Warn("startState: %v", err)
		} else if t, ok := ret.(*lua.LTable); ok {
			return &State{t: t, L: m.L}
		}
	}
	return &State{t: m.L.NewTable(), L: m.L}
}

// Token calls token(stream, state, atLineStart). A failing script styles
// the rest of the line as "error".
func (m *Mode) Token(s *mode.Stream, st mode.State, atLineStart bool) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.L == nil {
		s.SkipToEnd()
		return ""
	}

	ud := m.newStreamValue(s)
	defer func() { ud.Value = nil }()

	ret, err := m.call(m.token, ud, m.stateTable(st), lua.LBool(atLineStart))
	if err != nil {
		m.logger.Warn("token at column %d: %v", s.Pos(), err)
		s.SkipToEnd()
		return "error"
	}
	if ret == lua.LNil {
		return ""
	}
	return lua.LVAsString(ret)
}

// Indent calls indent(state, textAfter).
func (m *Mode) Indent(st mode.State, textAfter string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.L == nil || m.indent == nil {
		return mode.Pass
	}
	ret, err := m.call(m.indent, m.stateTable(st), lua.LString(textAfter))
	if err != nil {
		m.logger.Warn("indent: %v", err)
		return mode.Pass
	}
	n, ok := ret.(lua.LNumber)
	if !ok {
		return mode.Pass
	}
	return int(n)
}

func (m *Mode) stateTable(st mode.State) lua.LValue {
	if s, ok := st.(*State); ok && s.t != nil {
		return s.t
	}
	return m.L.NewTable()
}

// call invokes fn with a timeout and returns its first result.
func (m *Mode) call(fn lua.LValue, args ...lua.LValue) (lua.LValue, error) {
	var ret lua.LValue = lua.LNil
	err := m.run(func() error {
		if err := m.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = m.L.Get(-1)
		m.L.Pop(1)
		return nil
	})
	return ret, err
}

// run executes fn under the call timeout, turning panics into errors.
func (m *Mode) run(fn func() error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	m.L.SetContext(ctx)
	defer m.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// State is the state of a Lua mode: the table returned by startState.
type State struct {
	t *lua.LTable
	L *lua.LState
}

// Table returns the underlying Lua table.
func (s *State) Table() *lua.LTable { return s.t }

// Copy returns a one-level copy.
func (s *State) Copy() mode.State {
	if s.t == nil || s.L == nil {
		return &State{t: s.t, L: s.L}
	}
	return &State{t: copyTable(s.L, s.t), L: s.L}
}

// Equal compares the tables one level deep.
func (s *State) Equal(other mode.State) bool {
	o, ok := other.(*State)
	if !ok {
		return false
	}
	if s.t == nil || o.t == nil {
		return s.t == o.t
	}
	return equalTables(s.t, o.t)
}
