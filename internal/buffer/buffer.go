// Package buffer provides a bounded, append-only byte accumulator used to
// collect an HTTP response body delivered in arbitrarily sized chunks.
package buffer

import (
	"errors"
	"fmt"
)

const (
	// DefaultInitialCapacity is the capacity allocated before the first chunk arrives.
	DefaultInitialCapacity = 4096
	// DefaultMaxCapacity bounds a single response body to 10 MiB.
	DefaultMaxCapacity = 10 * 1024 * 1024
)

var (
	// ErrAllocation is returned when the requested storage cannot be obtained.
	ErrAllocation = errors.New("buffer allocation failed")
	// ErrCapacityExceeded is returned when an append would grow the buffer past its ceiling.
	ErrCapacityExceeded = errors.New("buffer capacity exceeded")
	// ErrReleased is returned when appending to a released buffer.
	ErrReleased = errors.New("buffer released")
)

// Buffer accumulates bytes up to a fixed ceiling. The zero value is a
// released buffer: it can be released again but not appended to.
//
// A Buffer is owned by a single request and is not safe for concurrent use.
type Buffer struct {
	data []byte
	max  int
}

// New allocates a buffer with initialCapacity bytes of storage that may grow
// up to maxCapacity bytes.
func New(initialCapacity, maxCapacity int) (*Buffer, error) {
	if initialCapacity <= 0 || maxCapacity <= 0 {
		return nil, fmt.Errorf("%w: capacities must be positive (initial %d, max %d)",
			ErrAllocation, initialCapacity, maxCapacity)
	}
	if initialCapacity > maxCapacity {
		return nil, fmt.Errorf("%w: initial capacity %d exceeds maximum %d",
			ErrAllocation, initialCapacity, maxCapacity)
	}
	return &Buffer{
		data: make([]byte, 0, initialCapacity),
		max:  maxCapacity,
	}, nil
}

// Append copies chunk onto the end of the buffer and returns the number of
// bytes written. When the chunk does not fit, capacity doubles until it does,
// clamped to the ceiling. A chunk that would take the buffer past its ceiling
// is rejected whole: nothing is written and the existing content is untouched.
func (b *Buffer) Append(chunk []byte) (int, error) {
	if b == nil || b.data == nil {
		return 0, ErrReleased
	}
	if len(chunk) == 0 {
		return 0, nil
	}

	needed := len(b.data) + len(chunk)
	if needed > b.max {
		return 0, fmt.Errorf("%w: response larger than %d bytes", ErrCapacityExceeded, b.max)
	}

	if needed > cap(b.data) {
		b.grow(needed)
	}

	b.data = append(b.data, chunk...)
	return len(chunk), nil
}

// grow reallocates to the smallest doubling of the current capacity that
// holds needed bytes, never above the ceiling. The caller has already
// checked needed <= max.
func (b *Buffer) grow(needed int) {
	newCap := cap(b.data)
	for newCap < needed {
		if newCap > b.max/2 {
			newCap = b.max
			break
		}
		newCap *= 2
	}
	if newCap > b.max {
		newCap = b.max
	}

	grown := make([]byte, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
}

// Write implements io.Writer on top of Append. A rejected chunk reports zero
// bytes written, which io.Copy and friends treat as a short write.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.Append(p)
}

// Bytes returns the buffered content. The slice aliases the buffer's storage
// and is only valid until the next Append or Release.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Cap returns the currently allocated capacity.
func (b *Buffer) Cap() int {
	if b == nil {
		return 0
	}
	return cap(b.data)
}

// Max returns the ceiling the buffer may grow to.
func (b *Buffer) Max() int {
	if b == nil {
		return 0
	}
	return b.max
}

// Release drops the buffer's storage. It is safe to call on a nil, zero-value
// or already released buffer.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	b.data = nil
}
