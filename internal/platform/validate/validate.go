// Copyright (c) 2026 Quillshelf. All rights reserved.

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Handlers and services run their input through a Validator so that business
// logic only ever sees semantically valid data. A local validation failure is
// rejected before any remote call is made.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/quillshelf/quillshelf/internal/platform/apperr"
)

var (
	// slugPattern: lowercase alphanumeric runs joined by single hyphens.
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	// uuidPattern matches the canonical 8-4-4-4-12 hex form (any version).
	uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// Every rule records its failure and returns the receiver, so one pass reports
// every broken field at once instead of stopping at the first.
//
// # Concurrency
//
// Validator is not safe for concurrent use. Create a new instance per
// request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// check records a field error when ok is false. All rules funnel through it.
func (v *Validator) check(field string, ok bool, message string) *Validator {
	if !ok {
		v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) != "", "This field is required")
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) <= max,
		fmt.Sprintf("Maximum %d characters", max))
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) >= min,
		fmt.Sprintf("Minimum %d characters", min))
}

// Range fails if the value is outside [min, max]. Review ratings use
// v.Range("rating", rating, 1, 5).
func (v *Validator) Range(field string, value, min, max int) *Validator {
	return v.check(field, value >= min && value <= max,
		fmt.Sprintf("Must be between %d and %d", min, max))
}

// Email fails if the value is not a parseable RFC 5322 address.
func (v *Validator) Email(field, value string) *Validator {
	_, err := mail.ParseAddress(value)
	return v.check(field, err == nil, "Must be a valid email address")
}

// Slug fails if the value is not a valid URL slug: lowercase letters, digits,
// and single interior hyphens.
func (v *Validator) Slug(field, value string) *Validator {
	return v.check(field, slugPattern.MatchString(value),
		"Must be a valid URL slug (lowercase letters, digits, hyphens only)")
}

// UUID fails if the value is not a canonical UUID string (case-insensitive).
func (v *Validator) UUID(field, value string) *Validator {
	return v.check(field, uuidPattern.MatchString(strings.ToLower(value)),
		"Must be a valid UUID")
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, candidate := range allowed {
		if value == candidate {
			return v
		}
	}
	return v.check(field, false, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("series_order", order != nil && *order < 1, "Must be a positive volume number")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(field, !failed, message)
}

// Err returns a VALIDATION_ERROR [apperr.AppError] carrying every failed
// field, or nil if all rules passed. Call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
