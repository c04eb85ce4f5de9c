// Copyright (c) 2026 Quillshelf. All rights reserved.

// Package pointer removes the boilerplate of taking the address of a literal
// and of dereferencing optional values.
package pointer

// To returns a pointer to the provided value. Useful for optional struct
// fields (e.g. pointer.To(3) for a series order).
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value of T when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
