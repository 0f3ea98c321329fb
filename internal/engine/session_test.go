package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mxbridge/internal/engine"
	"mxbridge/internal/engine/enginetest"
	"mxbridge/internal/mxarray"
	"mxbridge/internal/status"
)

func rgb(t *testing.T) *mxarray.Array {
	t.Helper()
	img, err := mxarray.NewUint8([]int{1, 2, 3}, []byte{1, 2, 3, 4, 5, 6}, nil, "img")
	require.NoError(t, err)
	return img
}

func TestSessionCallsBeforeStart(t *testing.T) {
	s := engine.NewSession(enginetest.New())

	assert.False(t, s.Ready())
	assert.ErrorIs(t, s.PutVariable("img", rgb(t)), status.ErrSessionNotReady)
	assert.ErrorIs(t, s.Evaluate("x = 1;"), status.ErrSessionNotReady)

	_, err := s.GetVariable("img")
	assert.ErrorIs(t, err, status.ErrSessionNotReady)
}

func TestSessionStart(t *testing.T) {
	fake := enginetest.New()
	s := engine.NewSession(fake)

	require.NoError(t, s.Start(true))
	assert.True(t, s.Ready())
	assert.True(t, fake.Visible())
	assert.NotEmpty(t, s.ID())

	// Starting twice keeps the existing connection.
	require.NoError(t, s.Start(false))
	assert.Equal(t, 1, fake.Opens())
}

func TestSessionStartFailures(t *testing.T) {
	t.Run("engine unavailable", func(t *testing.T) {
		fake := enginetest.New()
		fake.Unavailable = true
		s := engine.NewSession(fake)

		err := s.Start(false)
		assert.ErrorIs(t, err, status.ErrEngineUnavailable)
		assert.False(t, s.Ready())
	})

	t.Run("visibility rejected", func(t *testing.T) {
		fake := enginetest.New()
		fake.VisibleCode = 1
		s := engine.NewSession(fake)

		err := s.Start(true)
		assert.ErrorIs(t, err, status.ErrEngineConfigFailed)
		assert.False(t, s.Ready())
		assert.Equal(t, 1, fake.Closes(), "half-open handle is closed again")
	})

	t.Run("no driver", func(t *testing.T) {
		s := engine.NewSession(nil)
		assert.ErrorIs(t, s.Start(false), status.ErrEngineUnavailable)
	})
}

func TestSessionShutdownIsIdempotent(t *testing.T) {
	fake := enginetest.New()
	s := engine.NewSession(fake)

	s.Shutdown()
	assert.Equal(t, 0, fake.Closes())

	require.NoError(t, s.Start(false))
	s.Shutdown()
	s.Shutdown()

	assert.Equal(t, 1, fake.Closes())
	assert.False(t, s.Ready())
	assert.Empty(t, s.ID())
	assert.ErrorIs(t, s.Evaluate("x = 1;"), status.ErrSessionNotReady)
}

func TestSessionNullArguments(t *testing.T) {
	s := engine.NewSession(enginetest.New())
	require.NoError(t, s.Start(false))

	assert.ErrorIs(t, s.PutVariable("", rgb(t)), status.ErrNullArgument)
	assert.ErrorIs(t, s.PutVariable("img", nil), status.ErrNullArgument)
	assert.ErrorIs(t, s.Evaluate(""), status.ErrNullArgument)

	_, err := s.GetVariable("")
	assert.ErrorIs(t, err, status.ErrNullArgument)
}

func TestSessionVariableRoundTrip(t *testing.T) {
	fake := enginetest.New()
	tracker := mxarray.NewTracker(nil)
	s := engine.NewSession(fake, engine.WithAllocator(tracker))
	require.NoError(t, s.Start(false))

	require.NoError(t, s.PutVariable("img", rgb(t)))

	got, err := s.GetVariable("img")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got.Dimensions())
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, got.Data())
	assert.True(t, tracker.Live(got.BufferID()), "fetched arrays come from the session allocator")

	got.Destroy()
	assert.Equal(t, int64(0), tracker.GetStats().CurrentlyActive)

	_, err = s.GetVariable("missing")
	assert.ErrorIs(t, err, status.ErrVariableNotFound)
}

func TestSessionMapsEngineCodes(t *testing.T) {
	fake := enginetest.New()
	fake.PutCode = 1
	fake.Eval = func(expr string, ws enginetest.Workspace) int {
		if expr == "error('boom');" {
			return 1
		}
		return 0
	}
	s := engine.NewSession(fake)
	require.NoError(t, s.Start(false))

	assert.ErrorIs(t, s.PutVariable("img", rgb(t)), status.ErrUnspecified)
	assert.NoError(t, s.Evaluate("x = 1;"))

	err := s.Evaluate("error('boom');")
	assert.ErrorIs(t, err, status.ErrUnspecified)
	assert.Equal(t, status.KindUnspecified, status.KindOf(err))

	assert.Equal(t, []string{"x = 1;", "error('boom');"}, fake.Expressions())
}

func TestSessionGetVariableAllocationFailure(t *testing.T) {
	fake := enginetest.New()
	big, err := mxarray.New(mxarray.Uint8Class, []int{10, 10, 3}, nil, "img")
	require.NoError(t, err)
	fake.SetVariable("img", big)

	s := engine.NewSession(fake, engine.WithAllocator(&mxarray.HeapAllocator{MaxAllocation: 16}))
	require.NoError(t, s.Start(false))

	got, err := s.GetVariable("img")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, status.ErrOutOfMemory)
	assert.NotErrorIs(t, err, status.ErrVariableNotFound)
	assert.Equal(t, status.KindOutOfMemory, status.KindOf(err))
}

func TestSessionRejectsMovedOutArray(t *testing.T) {
	fake := enginetest.New()
	s := engine.NewSession(fake)
	require.NoError(t, s.Start(false))

	img := rgb(t)
	dst, err := mxarray.New(mxarray.Uint8Class, []int{1, 2, 3}, nil, "dst")
	require.NoError(t, err)
	require.NoError(t, mxarray.MoveData(img, dst))
	require.False(t, img.HasData())

	err = s.PutVariable("img", img)
	assert.ErrorIs(t, err, status.ErrNullArgument)
	assert.Nil(t, fake.Variable("img"), "nothing reaches the engine")

	// An empty array carries no buffer requirement.
	empty, err := mxarray.New(mxarray.DoubleClass, []int{0, 0}, nil, "empty")
	require.NoError(t, err)
	assert.NoError(t, s.PutVariable("empty", empty))
}
