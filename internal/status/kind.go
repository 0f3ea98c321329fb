package status

import "errors"

// Kind is the enumerated outcome surfaced to hosts that cannot inspect Go errors.
type Kind int

const (
	KindOK Kind = iota
	KindNullArgument
	KindShapeMismatch
	KindDimensionMismatch
	KindIncompatibleShape
	KindSessionNotReady
	KindEngineUnavailable
	KindEngineConfigFailed
	KindVariableNotFound
	KindOutOfMemory
	KindUnspecified
)

var kindTable = []struct {
	err  error
	kind Kind
}{
	{ErrNullArgument, KindNullArgument},
	{ErrShapeMismatch, KindShapeMismatch},
	{ErrDimensionMismatch, KindDimensionMismatch},
	{ErrIncompatibleShape, KindIncompatibleShape},
	{ErrSessionNotReady, KindSessionNotReady},
	{ErrEngineUnavailable, KindEngineUnavailable},
	{ErrEngineConfigFailed, KindEngineConfigFailed},
	{ErrVariableNotFound, KindVariableNotFound},
	{ErrOutOfMemory, KindOutOfMemory},
	{ErrUnspecified, KindUnspecified},
}

// KindOf classifies err. Errors outside the taxonomy are reported as KindUnspecified.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	for _, entry := range kindTable {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}
	return KindUnspecified
}

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNullArgument:
		return "null_argument"
	case KindShapeMismatch:
		return "shape_mismatch"
	case KindDimensionMismatch:
		return "dimension_mismatch"
	case KindIncompatibleShape:
		return "incompatible_shape"
	case KindSessionNotReady:
		return "session_not_ready"
	case KindEngineUnavailable:
		return "engine_unavailable"
	case KindEngineConfigFailed:
		return "engine_config_failed"
	case KindVariableNotFound:
		return "variable_not_found"
	case KindOutOfMemory:
		return "out_of_memory"
	default:
		return "unspecified"
	}
}
