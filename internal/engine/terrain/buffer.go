package terrain

import (
	"fmt"
	"sync"
)

// BufferHandle identifies a buffer owned by a BufferStore. Zero is never valid.
type BufferHandle uint32

// BufferStore allocates geometry buffers, usually on the GPU.
type BufferStore interface {
	AllocVertices(data []float32, stride int) (BufferHandle, error)
	AllocIndices(data []uint16) (BufferHandle, error)
	AllocDeltas(data []float32) (BufferHandle, error)
	Release(h BufferHandle)
}

// SharedBuffer is a reference-counted buffer handle. The underlying buffer is
// released to its store when the last reference is dropped.
type SharedBuffer struct {
	mu     sync.Mutex
	store  BufferStore
	handle BufferHandle
	refs   int
}

// NewSharedBuffer wraps h with a single reference.
func NewSharedBuffer(store BufferStore, h BufferHandle) *SharedBuffer {
	return &SharedBuffer{store: store, handle: h, refs: 1}
}

// Handle returns the wrapped handle, or zero once released.
func (b *SharedBuffer) Handle() BufferHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refs == 0 {
		return 0
	}
	return b.handle
}

// Retain adds a reference and returns b for chaining.
func (b *SharedBuffer) Retain() (*SharedBuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refs == 0 {
		return nil, fmt.Errorf("%w: retain of buffer %d", ErrBufferReleased, b.handle)
	}
	b.refs++
	return b, nil
}

// Release drops a reference and frees the buffer when none remain.
func (b *SharedBuffer) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refs == 0 {
		return fmt.Errorf("%w: release of buffer %d", ErrBufferReleased, b.handle)
	}
	b.refs--
	if b.refs == 0 {
		b.store.Release(b.handle)
	}
	return nil
}

// Refs returns the current reference count.
func (b *SharedBuffer) Refs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refs
}

// MemoryStore is an arena-indexed BufferStore kept in main memory. It backs
// headless builds and tests. A positive capacity limits the total number of
// float32/uint16 elements held at once.
type MemoryStore struct {
	mu       sync.Mutex
	next     BufferHandle
	capacity int
	used     int
	floats   map[BufferHandle][]float32
	strides  map[BufferHandle]int
	indices  map[BufferHandle][]uint16
}

// NewMemoryStore creates a store. Capacity <= 0 means unlimited.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{
		capacity: capacity,
		floats:   make(map[BufferHandle][]float32),
		strides:  make(map[BufferHandle]int),
		indices:  make(map[BufferHandle][]uint16),
	}
}

// AllocVertices stores interleaved vertex data.
func (s *MemoryStore) AllocVertices(data []float32, stride int) (BufferHandle, error) {
	if stride <= 0 || len(data)%stride != 0 {
		return 0, fmt.Errorf("%w: %d floats do not divide into stride %d", ErrInvariantViolation, len(data), stride)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.reserve(len(data))
	if err != nil {
		return 0, err
	}
	s.floats[h] = append([]float32(nil), data...)
	s.strides[h] = stride
	return h, nil
}

// AllocIndices stores 16-bit triangle indices.
func (s *MemoryStore) AllocIndices(data []uint16) (BufferHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.reserve(len(data))
	if err != nil {
		return 0, err
	}
	s.indices[h] = append([]uint16(nil), data...)
	return h, nil
}

// AllocDeltas stores one morph delta per vertex.
func (s *MemoryStore) AllocDeltas(data []float32) (BufferHandle, error) {
	return s.AllocVertices(data, 1)
}

// Release frees a buffer. Unknown handles are ignored.
func (s *MemoryStore) Release(h BufferHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.floats[h]; ok {
		s.used -= len(f)
		delete(s.floats, h)
		delete(s.strides, h)
	}
	if i, ok := s.indices[h]; ok {
		s.used -= len(i)
		delete(s.indices, h)
	}
}

// Floats returns the float data behind h.
func (s *MemoryStore) Floats(h BufferHandle) ([]float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.floats[h]
	return f, ok
}

// Indices returns the index data behind h.
func (s *MemoryStore) Indices(h BufferHandle) ([]uint16, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.indices[h]
	return i, ok
}

// Live returns the number of buffers currently allocated.
func (s *MemoryStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.floats) + len(s.indices)
}

// Used returns the number of elements currently allocated.
func (s *MemoryStore) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used
}

func (s *MemoryStore) reserve(n int) (BufferHandle, error) {
	if s.capacity > 0 && s.used+n > s.capacity {
		return 0, fmt.Errorf("%w: need %d elements, %d of %d in use", ErrBufferExhausted, n, s.used, s.capacity)
	}
	s.next++
	s.used += n
	return s.next, nil
}
