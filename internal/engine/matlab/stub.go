//go:build !matlab || !cgo

package matlab

import "mxbridge/internal/engine"

// Available reports whether the MATLAB binding was compiled in.
func Available() bool {
	return false
}

type driver struct{}

// NewDriver returns a driver whose Open always fails; rebuild with -tags matlab for the real
// binding.
func NewDriver() engine.Driver {
	return driver{}
}

func (driver) Open(string) engine.Handle {
	return nil
}
