package mode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNew(t *testing.T) {
	r := NewRegistry()
	r.Register("text/plain", NewPlain, "plain", "text")

	m, err := r.New("plain", Config{})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", m.Name())

	_, ok := r.Lookup("TEXT")
	assert.True(t, ok)
	assert.Equal(t, []string{"text/plain"}, r.Names())
}

func TestRegistryNotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.New("cobol", Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModeNotFound))
	assert.Contains(t, err.Error(), "cobol")
}

func TestRegistryFactoryError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	r.Register("broken", func(Config) (Mode, error) { return nil, boom })
	_, err := r.New("broken", Config{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrModeNotFound))
}

func TestRegistryAppliesDefaults(t *testing.T) {
	var got Config
	r := NewRegistry()
	r.Register("probe", func(c Config) (Mode, error) {
		got = c
		return Plain{}, nil
	})
	_, err := r.New("probe", Config{})
	require.NoError(t, err)
	assert.Equal(t, 2, got.IndentUnit)
	assert.Equal(t, 4, got.TabSize)
}

func TestPlainMode(t *testing.T) {
	var m Plain
	st := m.StartState()
	s := NewStream("hello world", 4)
	assert.Equal(t, "", m.Token(s, st, true))
	assert.True(t, s.EOL())
	assert.Equal(t, Pass, m.Indent(st, ""))
}

type flatState struct {
	Depth int
	Stack []string
}

func (f *flatState) Copy() State {
	c := *f
	c.Stack = append([]string(nil), f.Stack...)
	return &c
}

func TestEqualStates(t *testing.T) {
	assert.True(t, EqualStates(nil, nil))
	assert.False(t, EqualStates(plainState{}, nil))
	assert.True(t, EqualStates(plainState{}, plainState{}))
	assert.Nil(t, CopyState(nil))

	a := &flatState{Depth: 1, Stack: []string{"x"}}
	b := CopyState(a).(*flatState)
	assert.True(t, EqualStates(a, b))
	b.Stack[0] = "y"
	assert.Equal(t, "x", a.Stack[0])
	assert.False(t, EqualStates(a, b))
}
