package terrain

import "errors"

// Terrain errors.
var (
	// ErrInvariantViolation marks a programming error: bad tile parameters,
	// mismatched buffer sizes or an illegal fade pass transition.
	ErrInvariantViolation = errors.New("terrain invariant violation")

	// ErrBufferExhausted is returned by a BufferStore that cannot satisfy an allocation.
	ErrBufferExhausted = errors.New("buffer store exhausted")

	// ErrBufferReleased is returned when a released buffer handle is used.
	ErrBufferReleased = errors.New("buffer already released")
)
