package mode

import "reflect"

// Pass is returned by Mode.Indent when the mode has no indentation opinion.
const Pass = -1

// Mode is a tokenizer and indenter for one language.
type Mode interface {
	// Name returns the registered name of the mode.
	Name() string

	// StartState returns the state before the first line of a document.
	StartState() State

	// Token consumes the next token from s and returns its style label.
	// An empty label means the text is unstyled.
	// atLineStart reports whether the token starts at column 0.
	Token(s *Stream, st State, atLineStart bool) string

	// Indent returns the indentation column for a line whose text after the
	// existing indentation is textAfter, given the state before that line.
	Indent(st State, textAfter string) int
}

// State is the tokenizer state carried between lines.
type State interface {
	// Copy returns a deep enough copy that mutating either value does not
	// affect the other.
	Copy() State
}

// Comparer is implemented by states that can decide equality themselves.
type Comparer interface {
	Equal(other State) bool
}

// CopyState copies st, returning nil for a nil state.
func CopyState(st State) State {
	if st == nil {
		return nil
	}
	return st.Copy()
}

// EqualStates reports whether two states are equivalent.
func EqualStates(a, b State) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if c, ok := a.(Comparer); ok {
		return c.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

// Config holds the settings a mode is created with.
type Config struct {
	IndentUnit int
	TabSize    int

	// Options carries mode specific settings such as a base column.
	Options map[string]any
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{IndentUnit: 2, TabSize: 4}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.IndentUnit <= 0 {
		c.IndentUnit = def.IndentUnit
	}
	if c.TabSize <= 0 {
		c.TabSize = def.TabSize
	}
	return c
}

// Int returns an integer option or def when absent.
func (c Config) Int(key string, def int) int {
	switch v := c.Options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// String returns a string option or def when absent.
func (c Config) String(key, def string) string {
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return def
}

// Plain is the mode used for text without a grammar.
// Every line is a single unstyled token.
type Plain struct{}

type plainState struct{}

func (plainState) Copy() State { return plainState{} }

func (plainState) Equal(other State) bool {
	_, ok := other.(plainState)
	return ok
}

// NewPlain is a Factory for Plain.
func NewPlain(Config) (Mode, error) { return Plain{}, nil }

func (Plain) Name() string { return "text/plain" }

func (Plain) StartState() State { return plainState{} }

func (Plain) Token(s *Stream, _ State, _ bool) string {
	s.SkipToEnd()
	return ""
}

func (Plain) Indent(State, string) int { return Pass }
