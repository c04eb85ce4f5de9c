// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
Package slice complements the standard [slices] package with small generic
helpers that it does not provide.
*/
package slice

// Filter returns the elements of input for which the predicate is true.
//
// A nil input yields nil. The result is freshly allocated; input is never
// mutated.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}
