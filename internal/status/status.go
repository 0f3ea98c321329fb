package status

import (
	"errors"
	"fmt"
)

var (
	// ErrNullArgument indicates a required argument was absent
	ErrNullArgument = errors.New("mxbridge: null argument")

	// ErrShapeMismatch indicates an array has the wrong dimensionality, element type or is empty
	ErrShapeMismatch = errors.New("mxbridge: shape mismatch")

	// ErrDimensionMismatch indicates two corresponding buffers disagree on size
	ErrDimensionMismatch = errors.New("mxbridge: dimension mismatch")

	// ErrIncompatibleShape indicates a buffer move precondition failed
	ErrIncompatibleShape = errors.New("mxbridge: incompatible shape")

	// ErrSessionNotReady indicates no engine handle is held
	ErrSessionNotReady = errors.New("mxbridge: engine session not ready")

	// ErrEngineUnavailable indicates the engine process could not be reached
	ErrEngineUnavailable = errors.New("mxbridge: engine unavailable")

	// ErrEngineConfigFailed indicates the engine rejected the visibility directive
	ErrEngineConfigFailed = errors.New("mxbridge: engine configuration failed")

	// ErrVariableNotFound indicates the engine holds no binding for a name
	ErrVariableNotFound = errors.New("mxbridge: variable not found")

	// ErrOutOfMemory indicates a buffer could not be allocated
	ErrOutOfMemory = errors.New("mxbridge: out of memory")

	// ErrUnspecified is the engine's undifferentiated failure signal
	ErrUnspecified = errors.New("mxbridge: unspecified engine error")
)

// Error wraps an underlying error with the operation that produced it
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches op to err. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// FromRetCode converts an engine return code into an error.
// The engine only reports 0 for success and nonzero for failure; it never says why.
func FromRetCode(op string, code int) error {
	if code == 0 {
		return nil
	}
	return &Error{Op: op, Err: ErrUnspecified}
}
