// Package bufpool provides a shared pool of buffers.
package bufpool

import (
	"bytes"
	"sync"
)

// maxPooled is the largest capacity a buffer may have and still be
// returned to the pool. A single oversized page shouldn't pin its
// memory for the rest of a build.
const maxPooled = 1 << 20

var bufPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// Get retrieves an empty buffer from the pool.
func Get() *bytes.Buffer {
	return bufPool.Get().(*bytes.Buffer)
}

// Put resets a buffer and places it into the pool. Nil and oversized
// buffers are dropped.
func Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooled {
		return
	}

	buf.Reset()
	bufPool.Put(buf)
}

// String runs f against a pooled buffer and returns what it wrote.
func String(f func(*bytes.Buffer)) string {
	buf := Get()
	defer Put(buf)

	f(buf)
	return buf.String()
}
