package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")

	ErrEmptyEmail         = errors.New("email is required")
	ErrEmptyPassword      = errors.New("password is required")
	ErrEmptyName          = errors.New("name is required")
	ErrInvalidAccountType = errors.New("account type must be one of CASH, DEBIT, CREDIT, SAVINGS")
	ErrMissingAccountID   = errors.New("account id is required")
	ErrInvalidAmount      = errors.New("amount must be a plain decimal number")
	ErrInvalidDate        = errors.New("date must use the YYYY-MM-DD form")
)
