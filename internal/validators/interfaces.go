// Package validators provides input validation for the request DTOs and the
// bootstrap document.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//
// Validation is strict and exhaustive: every violation in the input is
// collected and reported together via errors.Join, so a caller fixing a
// rejected request sees all problems at once instead of one per round trip.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
