//go:build !matlab || !cgo

package matlab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mxbridge/internal/engine"
	"mxbridge/internal/status"
)

func TestStubDriverIsUnavailable(t *testing.T) {
	assert.False(t, Available())
	assert.Nil(t, NewDriver().Open(""))

	s := engine.NewSession(NewDriver())
	assert.ErrorIs(t, s.Start(false), status.ErrEngineUnavailable)
	s.Shutdown()
}
