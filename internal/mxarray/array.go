package mxarray

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"mxbridge/internal/status"
)

// Buffer is the storage behind an Array. It is released through its allocator at most once.
type Buffer struct {
	id       uint64
	data     []byte
	tag      string
	alloc    Allocator
	released int32
}

func (b *Buffer) ID() uint64 {
	return b.id
}

func (b *Buffer) release() {
	if atomic.CompareAndSwapInt32(&b.released, 0, 1) {
		b.alloc.Free(b.id, b.tag)
		b.data = nil
	}
}

// Array is a typed, shaped, column-major array exchanged with the engine.
// An array obtained from the engine belongs to the caller until Destroy is called or its
// buffer is moved elsewhere with MoveData.
type Array struct {
	mu    sync.Mutex
	id    uint64
	class ClassID
	dims  []int
	buf   *Buffer
}

var nextArrayID uint64

// New allocates a zero-filled array. Dimensions are normalised the way the engine does:
// at least two, trailing singleton dimensions past the second dropped.
func New(class ClassID, dims []int, alloc Allocator, tag string) (*Array, error) {
	elemSize := class.ElementSize()
	if elemSize == 0 {
		return nil, fmt.Errorf("unsupported class %s: %w", class, status.ErrShapeMismatch)
	}

	normalized, err := normalizeDims(dims)
	if err != nil {
		return nil, err
	}

	count := int64(1)
	for _, d := range normalized {
		if d != 0 && count > math.MaxInt64/int64(d)/int64(elemSize) {
			return nil, fmt.Errorf("array of %v %s elements: %w", normalized, class, status.ErrOutOfMemory)
		}
		count *= int64(d)
	}

	if alloc == nil {
		alloc = DefaultAllocator()
	}

	id := newBufferID()
	data, err := alloc.Allocate(id, count*int64(elemSize), tag)
	if err != nil {
		return nil, err
	}

	return &Array{
		id:    atomic.AddUint64(&nextArrayID, 1),
		class: class,
		dims:  normalized,
		buf: &Buffer{
			id:    id,
			data:  data,
			tag:   tag,
			alloc: alloc,
		},
	}, nil
}

// NewUint8 allocates a uint8 array and copies data into it when data is non-nil.
func NewUint8(dims []int, data []byte, alloc Allocator, tag string) (*Array, error) {
	a, err := New(Uint8Class, dims, alloc, tag)
	if err != nil {
		return nil, err
	}
	if data != nil {
		if want := len(a.buf.data); len(data) != want {
			a.Destroy()
			return nil, fmt.Errorf("uint8 payload of %d bytes for %d elements: %w",
				len(data), want, status.ErrDimensionMismatch)
		}
		copy(a.buf.data, data)
	}
	return a, nil
}

// NewFloat64 allocates a rows x cols double matrix from column-major values.
func NewFloat64(rows, cols int, values []float64, alloc Allocator, tag string) (*Array, error) {
	a, err := New(DoubleClass, []int{rows, cols}, alloc, tag)
	if err != nil {
		return nil, err
	}
	if values != nil {
		if len(values) != rows*cols {
			a.Destroy()
			return nil, fmt.Errorf("%d values for %dx%d matrix: %w", len(values), rows, cols, status.ErrDimensionMismatch)
		}
		for i, v := range values {
			binary.LittleEndian.PutUint64(a.buf.data[i*8:], math.Float64bits(v))
		}
	}
	return a, nil
}

func normalizeDims(dims []int) ([]int, error) {
	out := make([]int, 0, len(dims)+2)
	for _, d := range dims {
		if d < 0 {
			return nil, fmt.Errorf("negative dimension in %v: %w", dims, status.ErrShapeMismatch)
		}
		out = append(out, d)
	}
	for len(out) < 2 {
		out = append(out, 1)
	}
	for len(out) > 2 && out[len(out)-1] == 1 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (a *Array) Class() ClassID {
	return a.class
}

func (a *Array) IsUint8() bool {
	return a.class == Uint8Class
}

func (a *Array) ElementSize() int {
	return a.class.ElementSize()
}

func (a *Array) NumberOfDimensions() int {
	return len(a.dims)
}

// Dimensions returns a copy of the per-dimension extents.
func (a *Array) Dimensions() []int {
	out := make([]int, len(a.dims))
	copy(out, a.dims)
	return out
}

func (a *Array) NumberOfElements() int {
	n := 1
	for _, d := range a.dims {
		n *= d
	}
	return n
}

// IsEmpty reports whether any dimension is zero.
func (a *Array) IsEmpty() bool {
	return a.NumberOfElements() == 0
}

// Data returns the raw column-major buffer, or nil once the buffer was destroyed or moved out.
func (a *Array) Data() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.buf == nil {
		return nil
	}
	return a.buf.data
}

// BufferID identifies the buffer currently owned by the array; 0 when it owns none.
func (a *Array) BufferID() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.buf == nil {
		return 0
	}
	return a.buf.id
}

// HasData reports whether the array still owns a buffer.
func (a *Array) HasData() bool {
	return a.BufferID() != 0
}

// Float64s decodes a double array into its column-major values.
func (a *Array) Float64s() ([]float64, error) {
	if a.class != DoubleClass {
		return nil, fmt.Errorf("expected double array, got %s: %w", a.class, status.ErrShapeMismatch)
	}

	data := a.Data()
	if data == nil && !a.IsEmpty() {
		return nil, fmt.Errorf("array owns no buffer: %w", status.ErrNullArgument)
	}

	values := make([]float64, len(data)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return values, nil
}

// Destroy releases the buffer. Destroying an array whose buffer was moved out, or destroying
// twice, releases nothing.
func (a *Array) Destroy() {
	if a == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.buf != nil {
		a.buf.release()
		a.buf = nil
	}
}

func (a *Array) String() string {
	return fmt.Sprintf("%s%v", a.class, a.dims)
}
