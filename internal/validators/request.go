package validators

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldName       = "name"
	FieldType       = "type"
	FieldAccountID  = "account_id"
	FieldAmount     = "amount"
	FieldOccurredOn = "occurred_on"
)

const dateLayout = "2006-01-02"

var amountPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// RequestValidator implements the Validator interface for the inbound
// request DTOs: RegisterRequest, LoginRequest, CreateAccountRequest,
// CreateTransactionRequest, CreateTagRequest, CreateAPIKeyRequest and
// CreateExpenseRequest. Every violation is reported; the joined error lists
// them all.
type RequestValidator struct {
}

// NewRequestValidator constructs a RequestValidator and returns it as the
// Validator interface.
func NewRequestValidator() Validator {
	return &RequestValidator{}
}

// Validate dispatches validation based on the dynamic type of obj. Both
// value and pointer forms of each supported DTO are accepted. Returns
// ErrUnsupportedType for anything else.
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegister(ctx, value, fields...)
	case *models.RegisterRequest:
		return v.validateRegister(ctx, *value, fields...)

	case models.LoginRequest:
		return v.validateLogin(ctx, value, fields...)
	case *models.LoginRequest:
		return v.validateLogin(ctx, *value, fields...)

	case models.CreateAccountRequest:
		return v.validateCreateAccount(ctx, value, fields...)
	case *models.CreateAccountRequest:
		return v.validateCreateAccount(ctx, *value, fields...)

	case models.CreateTransactionRequest:
		return v.validateCreateTransaction(ctx, value, fields...)
	case *models.CreateTransactionRequest:
		return v.validateCreateTransaction(ctx, *value, fields...)

	case models.CreateTagRequest:
		return v.validateName(value.Name)
	case *models.CreateTagRequest:
		return v.validateName(value.Name)

	case models.CreateAPIKeyRequest:
		return v.validateName(value.Name)
	case *models.CreateAPIKeyRequest:
		return v.validateName(value.Name)

	case models.CreateExpenseRequest:
		return v.validateCreateExpense(ctx, value, fields...)
	case *models.CreateExpenseRequest:
		return v.validateCreateExpense(ctx, *value, fields...)
	}

	return ErrUnsupportedType
}

func (v *RequestValidator) validateRegister(_ context.Context, request models.RegisterRequest, fields ...string) error {
	var violations []error

	if shouldValidate(fields, FieldEmail) && strings.TrimSpace(request.Email) == "" {
		violations = append(violations, ErrEmptyEmail)
	}
	if shouldValidate(fields, FieldPassword) && request.Password == "" {
		violations = append(violations, ErrEmptyPassword)
	}

	return errors.Join(violations...)
}

func (v *RequestValidator) validateLogin(_ context.Context, request models.LoginRequest, fields ...string) error {
	var violations []error

	if shouldValidate(fields, FieldEmail) && strings.TrimSpace(request.Email) == "" {
		violations = append(violations, ErrEmptyEmail)
	}
	if shouldValidate(fields, FieldPassword) && request.Password == "" {
		violations = append(violations, ErrEmptyPassword)
	}

	return errors.Join(violations...)
}

func (v *RequestValidator) validateCreateAccount(_ context.Context, request models.CreateAccountRequest, fields ...string) error {
	var violations []error

	if shouldValidate(fields, FieldName) && strings.TrimSpace(request.Name) == "" {
		violations = append(violations, ErrEmptyName)
	}
	if shouldValidate(fields, FieldType) && !models.ValidAccountType(request.Type) {
		violations = append(violations, ErrInvalidAccountType)
	}

	return errors.Join(violations...)
}

func (v *RequestValidator) validateCreateTransaction(_ context.Context, request models.CreateTransactionRequest, fields ...string) error {
	var violations []error

	if shouldValidate(fields, FieldAccountID) && request.AccountID == uuid.Nil {
		violations = append(violations, ErrMissingAccountID)
	}
	if shouldValidate(fields, FieldAmount) && !validAmount(request.Amount) {
		violations = append(violations, ErrInvalidAmount)
	}
	if shouldValidate(fields, FieldOccurredOn) && !validDate(request.OccurredOn) {
		violations = append(violations, ErrInvalidDate)
	}

	return errors.Join(violations...)
}

func (v *RequestValidator) validateCreateExpense(_ context.Context, request models.CreateExpenseRequest, fields ...string) error {
	var violations []error

	if shouldValidate(fields, FieldAmount) && !validAmount(request.Amount) {
		violations = append(violations, ErrInvalidAmount)
	}
	if shouldValidate(fields, FieldOccurredOn) && !validDate(request.OccurredOn) {
		violations = append(violations, ErrInvalidDate)
	}

	return errors.Join(violations...)
}

func (v *RequestValidator) validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

func validAmount(amount string) bool {
	return amountPattern.MatchString(strings.TrimSpace(amount))
}

func validDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

// shouldValidate reports whether the named field is in scope: an empty field
// list validates everything.
func shouldValidate(fields []string, field string) bool {
	if len(fields) == 0 {
		return true
	}
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}
