package mxarray

import (
	"fmt"
	"sync/atomic"

	"mxbridge/internal/status"
)

// DefaultMaxAllocation caps a single buffer at 2GB.
const DefaultMaxAllocation int64 = 2 * 1024 * 1024 * 1024

// Allocator hands out and reclaims array buffers. Every buffer is identified by the id the
// array layer assigns; Free is called exactly once per successful Allocate.
type Allocator interface {
	Allocate(id uint64, size int64, tag string) ([]byte, error)
	Free(id uint64, tag string)
}

// HeapAllocator allocates buffers on the Go heap.
type HeapAllocator struct {
	MaxAllocation int64
}

func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{MaxAllocation: DefaultMaxAllocation}
}

func (h *HeapAllocator) Allocate(id uint64, size int64, tag string) ([]byte, error) {
	limit := h.MaxAllocation
	if limit <= 0 {
		limit = DefaultMaxAllocation
	}
	if size < 0 || size > limit {
		return nil, fmt.Errorf("allocate %d bytes for %q: %w", size, tag, status.ErrOutOfMemory)
	}
	return make([]byte, size), nil
}

// Free is a no-op; the garbage collector reclaims the slice once the array drops it.
func (h *HeapAllocator) Free(id uint64, tag string) {}

var defaultAllocator Allocator = NewHeapAllocator()

// DefaultAllocator returns the allocator used when none is supplied.
func DefaultAllocator() Allocator {
	return defaultAllocator
}

var nextBufferID uint64

func newBufferID() uint64 {
	return atomic.AddUint64(&nextBufferID, 1)
}
