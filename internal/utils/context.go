// Package utils provides general-purpose helper utilities used across
// different parts of the application: context keys, hashing, HTTP response
// writing, and JWT token generation and validation.
package utils

import (
	"context"

	"github.com/planifi/backend/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// IdentityCtxKey is the key under which the resolved client identity is
// stored in the request context by the authentication middleware.
var IdentityCtxKey = contextKey("identity")

// TraceIDCtxKey is the key under which the request trace id is stored in the
// request context by the trace middleware.
var TraceIDCtxKey = contextKey("traceID")

// IdempotencyKeyCtxKey is the key under which the validated Idempotency-Key
// header value is stored by the idempotency-key middleware.
var IdempotencyKeyCtxKey = contextKey("idempotencyKey")

// GetIdentityFromContext retrieves the resolved client identity from the
// context.
//
// Returns the identity and an ok flag:
//   - ok == true  — an identity was stored by the authentication middleware
//   - ok == false — value is missing or has an unexpected type
func GetIdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(models.Identity)
	return identity, ok
}

// GetIdempotencyKeyFromContext retrieves the Idempotency-Key header value
// stored by the idempotency-key middleware.
func GetIdempotencyKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(IdempotencyKeyCtxKey).(string)
	return key, ok && key != ""
}

// GetTraceIDFromContext retrieves the request trace id from the context,
// returning "unknown" when no trace id was attached. The fallback keeps
// error bodies well-formed even for requests that bypass the middleware
// chain (e.g. in tests).
func GetTraceIDFromContext(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDCtxKey).(string)
	if !ok || traceID == "" {
		return "unknown"
	}
	return traceID
}
