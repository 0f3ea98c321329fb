package mxarray

import (
	"sync"
	"sync/atomic"
	"time"
)

type AllocationInfo struct {
	Size        int64
	Tag         string
	AllocatedAt time.Time
}

type MemoryStats struct {
	TotalAllocated   int64
	TotalDeallocated int64
	CurrentlyActive  int64
	AllocationCount  int64
	FreeCount        int64
	UntrackedFrees   int64
}

// Tracker wraps an Allocator and records every allocation and release passing through it.
// A free for an id that is not live (never allocated, or already freed) counts as untracked.
type Tracker struct {
	next        Allocator
	mu          sync.RWMutex
	allocations map[uint64]AllocationInfo
	frees       map[uint64]int
	totalAlloc  int64
	totalFree   int64
	allocCount  int64
	freeCount   int64
	untracked   int64
}

func NewTracker(next Allocator) *Tracker {
	if next == nil {
		next = NewHeapAllocator()
	}
	return &Tracker{
		next:        next,
		allocations: make(map[uint64]AllocationInfo),
		frees:       make(map[uint64]int),
	}
}

func (t *Tracker) Allocate(id uint64, size int64, tag string) ([]byte, error) {
	data, err := t.next.Allocate(id, size, tag)
	if err != nil {
		return nil, err
	}

	atomic.AddInt64(&t.totalAlloc, size)
	atomic.AddInt64(&t.allocCount, 1)

	t.mu.Lock()
	t.allocations[id] = AllocationInfo{
		Size:        size,
		Tag:         tag,
		AllocatedAt: time.Now(),
	}
	t.mu.Unlock()

	return data, nil
}

func (t *Tracker) Free(id uint64, tag string) {
	t.mu.Lock()
	info, exists := t.allocations[id]
	t.frees[id]++
	if exists {
		delete(t.allocations, id)
	}
	t.mu.Unlock()

	atomic.AddInt64(&t.freeCount, 1)
	if !exists {
		atomic.AddInt64(&t.untracked, 1)
		return
	}

	atomic.AddInt64(&t.totalFree, info.Size)
	t.next.Free(id, tag)
}

// Frees reports how many times the buffer with the given id was released.
func (t *Tracker) Frees(id uint64) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frees[id]
}

// Live reports whether the buffer with the given id is allocated and not yet released.
func (t *Tracker) Live(id uint64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.allocations[id]
	return ok
}

func (t *Tracker) GetStats() MemoryStats {
	t.mu.RLock()
	active := int64(len(t.allocations))
	t.mu.RUnlock()

	return MemoryStats{
		TotalAllocated:   atomic.LoadInt64(&t.totalAlloc),
		TotalDeallocated: atomic.LoadInt64(&t.totalFree),
		CurrentlyActive:  active,
		AllocationCount:  atomic.LoadInt64(&t.allocCount),
		FreeCount:        atomic.LoadInt64(&t.freeCount),
		UntrackedFrees:   atomic.LoadInt64(&t.untracked),
	}
}

// DetectLeaks returns live allocations older than the given age.
func (t *Tracker) DetectLeaks(olderThan time.Duration) []AllocationInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	threshold := time.Now().Add(-olderThan)
	var leaks []AllocationInfo
	for _, info := range t.allocations {
		if !info.AllocatedAt.After(threshold) {
			leaks = append(leaks, info)
		}
	}
	return leaks
}
