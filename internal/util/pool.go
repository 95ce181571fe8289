package util

import (
	"sync"
)

// BufferPool provides reusable byte buffers of a fixed size so repeated
// downloads do not allocate a fresh chunk buffer each time.
type BufferPool struct {
	pool sync.Pool
	size int
}

// NewBufferPool creates a new buffer pool with the specified buffer size.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, size)
				return &b
			},
		},
	}
}

// Size returns the length of buffers handed out by the pool.
func (p *BufferPool) Size() int {
	return p.size
}

// Get retrieves a buffer from the pool.
// The buffer contents are undefined and should be overwritten.
func (p *BufferPool) Get() []byte {
	return *p.pool.Get().(*[]byte)
}

// Put returns a buffer to the pool. Buffers of the wrong size are dropped.
func (p *BufferPool) Put(b []byte) {
	if len(b) != p.size {
		return
	}
	p.pool.Put(&b)
}

// ChunkPool provides ChunkSize buffers for streaming downloads.
var ChunkPool = NewBufferPool(ChunkSize)
