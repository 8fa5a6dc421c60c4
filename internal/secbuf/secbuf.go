// Package secbuf implements a zeroizing byte buffer for credentials and
// block-hash material: content the evaluator must never leave sitting in
// memory after use, and must never compare via a timing-variable equality.
package secbuf

import "crypto/subtle"

// Buffer holds sensitive bytes. The zero value is an empty, already-wiped
// Buffer. Callers must call Wipe when done; Buffer does not rely on a
// finalizer because finalizer timing is not guaranteed.
type Buffer struct {
	data []byte
}

// New copies src into a new Buffer. The caller remains responsible for
// wiping src itself if it too held sensitive bytes.
func New(src []byte) *Buffer {
	b := &Buffer{data: make([]byte, len(src))}
	copy(b.data, src)
	return b
}

// Len reports the buffer's length.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the buffer's contents. The slice aliases internal storage;
// callers must not retain it past the next Wipe.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Equal performs a constant-time comparison against other, so that guessing
// a credential one byte at a time cannot be timed against this buffer.
func (b *Buffer) Equal(other []byte) bool {
	if len(b.data) != len(other) {
		return false
	}
	return subtle.ConstantTimeCompare(b.data, other) == 1
}

// Wipe overwrites the buffer with zeros using a loop the compiler cannot
// prove is dead and therefore cannot eliminate — Go has no volatile
// storage class, so an explicit noinline write loop is the idiomatic
// stand-in for it.
func (b *Buffer) Wipe() {
	zero(b.data)
	b.data = nil
}

//go:noinline
func zero(p []byte) {
	for i := range p {
		p[i] = 0
	}
}
