package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrEmailInUse is returned by registration when the normalized email is
	// already taken.
	ErrEmailInUse = errors.New("email is already registered")

	// ErrInvalidCredentials is returned by login for both unknown email and
	// wrong password, so the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled is returned when a transaction targets an account
	// that has been disabled.
	ErrAccountDisabled = errors.New("account is disabled")
)

// TagsNotFoundError reports every missing tag name of a resolve pass at once,
// rather than failing on the first.
type TagsNotFoundError struct {
	Names []string
}

func (e *TagsNotFoundError) Error() string {
	return "tags not found: " + strings.Join(e.Names, ", ")
}
