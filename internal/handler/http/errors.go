package http

import "errors"

// Sentinel errors used by the transport middleware when parsing request
// headers. Callers can match against them with [errors.Is].
var (
	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but cannot be split into at least two space-separated
	// parts (i.e. the token value is missing entirely).
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the "Authorization" header contains the
	// expected scheme prefix but the token value itself is an empty string.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")

	// ErrMissingIdempotencyKey is returned when a mutating request arrives
	// without a non-blank "Idempotency-Key" header.
	ErrMissingIdempotencyKey = errors.New("missing or blank `Idempotency-Key` header")

	// ErrInvalidAccountIDParam is returned when the "accountId" query
	// parameter is absent or not a UUID.
	ErrInvalidAccountIDParam = errors.New("missing or invalid `accountId` query parameter")

	// ErrInvalidDateParam is returned when "from" or "to" is not an ISO date
	// ("2006-01-02").
	ErrInvalidDateParam = errors.New("invalid date in `from`/`to` query parameter")

	// ErrInvalidPageParam is returned when "page" or "size" is not a positive
	// integer.
	ErrInvalidPageParam = errors.New("invalid `page`/`size` query parameter")
)
