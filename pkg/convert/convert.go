// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
Package convert provides fault-tolerant string conversions for handler code
parsing form fields and query parameters.

Do not use this package where malformed input must be distinguished from a
zero value; use [strconv] directly there.
*/
package convert

import "strconv"

// ToInt converts a string to an integer, silencing parsing errors.
// It returns 0 if the string is empty or cannot be parsed.
func ToInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
