package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRetCode(t *testing.T) {
	require.NoError(t, FromRetCode("eval", 0))

	for _, code := range []int{1, -1, 42} {
		err := FromRetCode("eval", code)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnspecified)
		assert.Equal(t, "eval: mxbridge: unspecified engine error", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindOK},
		{"direct sentinel", ErrShapeMismatch, KindShapeMismatch},
		{"wrapped by Error", Wrap("put", ErrNullArgument), KindNullArgument},
		{"wrapped by fmt", fmt.Errorf("stage 2: %w", ErrVariableNotFound), KindVariableNotFound},
		{"engine code", FromRetCode("eval", 1), KindUnspecified},
		{"foreign error", errors.New("boom"), KindUnspecified},
		{"out of memory", Wrap("alloc", ErrOutOfMemory), KindOutOfMemory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap("op", nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ok", KindOK.String())
	assert.Equal(t, "session_not_ready", KindSessionNotReady.String())
	assert.Equal(t, "unspecified", Kind(99).String())
}
