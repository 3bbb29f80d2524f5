package glterrain

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

type bufferKind int

const (
	kindVertices bufferKind = iota
	kindIndices
	kindDeltas
)

type bufferInfo struct {
	kind   bufferKind
	count  int // float32 or uint16 elements
	stride int // floats per vertex, vertex buffers only
}

// Store is a terrain.BufferStore backed by OpenGL buffer objects. Handles are
// the GL buffer names. It must only be used from the thread that owns the GL
// context. A positive budget caps the total bytes held at once.
type Store struct {
	budget  int
	used    int
	buffers map[terrain.BufferHandle]bufferInfo
}

// NewStore creates a store. budget <= 0 means unlimited.
func NewStore(budget int) *Store {
	return &Store{
		budget:  budget,
		buffers: make(map[terrain.BufferHandle]bufferInfo),
	}
}

// AllocVertices uploads interleaved vertex data to a new array buffer.
func (s *Store) AllocVertices(data []float32, stride int) (terrain.BufferHandle, error) {
	if stride <= 0 || len(data) == 0 || len(data)%stride != 0 {
		return 0, fmt.Errorf("%w: %d floats do not divide into stride %d", terrain.ErrInvariantViolation, len(data), stride)
	}
	return s.alloc(gl.ARRAY_BUFFER, unsafe.Pointer(&data[0]), len(data)*4,
		bufferInfo{kind: kindVertices, count: len(data), stride: stride})
}

// AllocIndices uploads 16-bit indices to a new element buffer.
func (s *Store) AllocIndices(data []uint16) (terrain.BufferHandle, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty index buffer", terrain.ErrInvariantViolation)
	}
	return s.alloc(gl.ELEMENT_ARRAY_BUFFER, unsafe.Pointer(&data[0]), len(data)*2,
		bufferInfo{kind: kindIndices, count: len(data)})
}

// AllocDeltas uploads one morph delta per vertex to a new array buffer.
func (s *Store) AllocDeltas(data []float32) (terrain.BufferHandle, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty delta buffer", terrain.ErrInvariantViolation)
	}
	return s.alloc(gl.ARRAY_BUFFER, unsafe.Pointer(&data[0]), len(data)*4,
		bufferInfo{kind: kindDeltas, count: len(data), stride: 1})
}

func (s *Store) alloc(target uint32, ptr unsafe.Pointer, size int, info bufferInfo) (terrain.BufferHandle, error) {
	if s.budget > 0 && s.used+size > s.budget {
		return 0, fmt.Errorf("%w: need %d bytes, %d of %d in use", terrain.ErrBufferExhausted, size, s.used, s.budget)
	}

	var buf uint32
	gl.GenBuffers(1, &buf)
	if buf == 0 {
		return 0, fmt.Errorf("%w: glGenBuffers returned no name", terrain.ErrBufferExhausted)
	}
	gl.BindBuffer(target, buf)
	gl.BufferData(target, size, ptr, gl.STATIC_DRAW)
	gl.BindBuffer(target, 0)

	if code := gl.GetError(); code == gl.OUT_OF_MEMORY {
		gl.DeleteBuffers(1, &buf)
		return 0, fmt.Errorf("%w: GL out of memory uploading %d bytes", terrain.ErrBufferExhausted, size)
	}

	h := terrain.BufferHandle(buf)
	s.buffers[h] = info
	s.used += size
	return h, nil
}

// Release deletes a buffer. Unknown handles are ignored.
func (s *Store) Release(h terrain.BufferHandle) {
	info, ok := s.buffers[h]
	if !ok {
		return
	}
	buf := uint32(h)
	gl.DeleteBuffers(1, &buf)
	s.used -= info.bytes()
	delete(s.buffers, h)
}

// Live returns the number of buffers currently allocated.
func (s *Store) Live() int { return len(s.buffers) }

// Used returns the number of bytes currently allocated.
func (s *Store) Used() int { return s.used }

// Destroy deletes every remaining buffer.
func (s *Store) Destroy() {
	for h := range s.buffers {
		s.Release(h)
	}
}

func (b bufferInfo) bytes() int {
	if b.kind == kindIndices {
		return b.count * 2
	}
	return b.count * 4
}
