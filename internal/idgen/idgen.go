// Package idgen generates the identifiers used across the interpreter:
// audit entry ids, polyglot call ids, and per-call temp directory names.
// It is a narrow seam over google/uuid so the rest of the tree never
// imports that package directly.
package idgen

import "github.com/google/uuid"

// New returns a fresh random (v4) identifier as a string.
func New() string {
	return uuid.NewString()
}

// NewCallID returns an identifier for one polyglot executor invocation,
// used both as the per-call temp directory name and as audit metadata.
func NewCallID() string {
	return "call-" + uuid.NewString()
}
