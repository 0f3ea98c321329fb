package engine

import "mxbridge/internal/mxarray"

// Driver opens connections to a numeric engine process.
type Driver interface {
	// Open starts or attaches to an engine. startCmd may be empty to use the default
	// launcher. It returns nil when the engine cannot be reached.
	Open(startCmd string) Handle
}

// Handle is one live engine connection. Every call reports the engine's binary status:
// 0 for success, nonzero for an unspecified failure.
type Handle interface {
	SetVisible(visible bool) int
	PutVariable(name string, value *mxarray.Array) int
	// GetVariable returns a copy of the named variable allocated from alloc. An unbound name
	// reports status.ErrVariableNotFound; allocation and conversion failures are returned as is.
	GetVariable(name string, alloc mxarray.Allocator) (*mxarray.Array, error)
	EvalString(expr string) int
	Close() int
}
