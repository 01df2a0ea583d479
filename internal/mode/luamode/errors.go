package luamode

import "errors"

var (
	// ErrScript is returned when a script fails to load or run.
	ErrScript = errors.New("lua mode script error")

	// ErrMissingToken is returned when a script does not define token.
	ErrMissingToken = errors.New("lua mode defines no token function")
)
