package config

import "errors"

var (
	// ErrInvalidAppConfigs is returned when token signing settings are
	// missing or inconsistent.
	ErrInvalidAppConfigs = errors.New("invalid app configs: token sign key, issuer and a positive duration are required")

	// ErrInvalidStorageConfigs is returned when no database DSN was provided
	// by any configuration source.
	ErrInvalidStorageConfigs = errors.New("invalid storage configs: database DSN is required")

	// ErrInvalidRateLimitConfigs is returned when the limiter is enabled but
	// its bucket parameters are out of range.
	ErrInvalidRateLimitConfigs = errors.New("invalid rate limit configs: rpm must be positive, burst non-negative, ttl and sweep interval positive")

	// ErrInvalidIdempotencyConfigs is returned when the idempotent execution
	// timings are out of range.
	ErrInvalidIdempotencyConfigs = errors.New("invalid idempotency configs: replay wait, poll interval, retention and purge interval must be positive")

	// ErrInvalidServerConfigs is returned when no HTTP listen address was
	// provided by any configuration source.
	ErrInvalidServerConfigs = errors.New("invalid server configs: http address is required")
)
