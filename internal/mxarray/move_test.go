package mxarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mxbridge/internal/status"
)

func newFilled(t *testing.T, dims []int, fill byte, alloc Allocator) *Array {
	t.Helper()
	a, err := New(Uint8Class, dims, alloc, "test")
	require.NoError(t, err)
	data := a.Data()
	for i := range data {
		data[i] = fill
	}
	return a
}

func TestMoveDataTransfersBuffer(t *testing.T) {
	tracker := NewTracker(nil)
	src := newFilled(t, []int{2, 3, 3}, 0xAB, tracker)
	dst := newFilled(t, []int{2, 3, 3}, 0x01, tracker)

	srcBuf := src.BufferID()
	oldDstBuf := dst.BufferID()

	require.NoError(t, MoveData(src, dst))

	assert.False(t, src.HasData())
	assert.Nil(t, src.Data())
	assert.Equal(t, []int{2, 3, 3}, src.Dimensions(), "source keeps its shape")

	assert.Equal(t, srcBuf, dst.BufferID())
	for _, b := range dst.Data() {
		require.Equal(t, byte(0xAB), b)
	}

	assert.Equal(t, 1, tracker.Frees(oldDstBuf))
	assert.Equal(t, 0, tracker.Frees(srcBuf))

	// Destroying the shell must not free the transferred buffer.
	src.Destroy()
	assert.Equal(t, 0, tracker.Frees(srcBuf))
	assert.True(t, tracker.Live(srcBuf))

	dst.Destroy()
	assert.Equal(t, 1, tracker.Frees(srcBuf))
	assert.Equal(t, int64(0), tracker.GetStats().UntrackedFrees)
	assert.Equal(t, int64(0), tracker.GetStats().CurrentlyActive)
}

func TestMoveDataRejectsIncompatibleShapes(t *testing.T) {
	tests := []struct {
		name    string
		src     func(Allocator) (*Array, error)
		dst     func(Allocator) (*Array, error)
		wantErr error
	}{
		{
			name:    "dimension count",
			src:     func(al Allocator) (*Array, error) { return New(Uint8Class, []int{2, 2, 3}, al, "src") },
			dst:     func(al Allocator) (*Array, error) { return New(Uint8Class, []int{2, 2}, al, "dst") },
			wantErr: status.ErrIncompatibleShape,
		},
		{
			name:    "source not 3-D",
			src:     func(al Allocator) (*Array, error) { return New(Uint8Class, []int{2, 2}, al, "src") },
			dst:     func(al Allocator) (*Array, error) { return New(Uint8Class, []int{2, 2}, al, "dst") },
			wantErr: status.ErrIncompatibleShape,
		},
		{
			name:    "element size",
			src:     func(al Allocator) (*Array, error) { return New(DoubleClass, []int{2, 2, 3}, al, "src") },
			dst:     func(al Allocator) (*Array, error) { return New(Uint8Class, []int{2, 2, 3}, al, "dst") },
			wantErr: status.ErrIncompatibleShape,
		},
		{
			name:    "extent",
			src:     func(al Allocator) (*Array, error) { return New(Uint8Class, []int{2, 4, 3}, al, "src") },
			dst:     func(al Allocator) (*Array, error) { return New(Uint8Class, []int{2, 2, 3}, al, "dst") },
			wantErr: status.ErrIncompatibleShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(nil)
			src, err := tt.src(tracker)
			require.NoError(t, err)
			dst, err := tt.dst(tracker)
			require.NoError(t, err)

			srcBuf, dstBuf := src.BufferID(), dst.BufferID()

			err = MoveData(src, dst)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, srcBuf, src.BufferID())
			assert.Equal(t, dstBuf, dst.BufferID())
			assert.Equal(t, 0, tracker.Frees(srcBuf))
			assert.Equal(t, 0, tracker.Frees(dstBuf))
		})
	}
}

func TestMoveDataNilAndShell(t *testing.T) {
	a := newFilled(t, []int{1, 1, 3}, 1, nil)
	assert.ErrorIs(t, MoveData(nil, a), status.ErrNullArgument)
	assert.ErrorIs(t, MoveData(a, nil), status.ErrNullArgument)

	b := newFilled(t, []int{1, 1, 3}, 2, nil)
	require.NoError(t, MoveData(a, b))

	// a is now a shell; moving out of it again has nothing to give.
	c := newFilled(t, []int{1, 1, 3}, 3, nil)
	assert.ErrorIs(t, MoveData(a, c), status.ErrNullArgument)
	assert.Equal(t, []byte{3, 3, 3}, c.Data())
}

func TestMoveDataSameArray(t *testing.T) {
	a := newFilled(t, []int{1, 1, 3}, 5, nil)
	require.NoError(t, MoveData(a, a))
	assert.Equal(t, []byte{5, 5, 5}, a.Data())
}
