package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrReadOnly indicates an input edit was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrClosed indicates the engine was used after Close.
	ErrClosed = errors.New("engine is closed")
)
