package models

import (
	"time"

	"github.com/google/uuid"
)

// ErrorResponse is the uniform error body returned by every failing request.
type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	TraceID   string `json:"traceId"`
}

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// LoginRequest authenticates an existing user.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateAccountRequest opens a new account for the authenticated user.
type CreateAccountRequest struct {
	Name string      `json:"name"`
	Type AccountType `json:"type"`
}

// CreateTransactionRequest records a money movement. OccurredOn uses the
// ISO date form "2006-01-02". Tags may repeat with different casing; they
// are deduplicated case-insensitively.
type CreateTransactionRequest struct {
	AccountID         uuid.UUID `json:"accountId"`
	Amount            string    `json:"amount"`
	OccurredOn        string    `json:"occurredOn"`
	Description       string    `json:"description"`
	Tags              []string  `json:"tags"`
	CreateMissingTags bool      `json:"createMissingTags"`
}

// CreateTagRequest creates (or returns) a tag by name.
type CreateTagRequest struct {
	Name string `json:"name"`
}

// CreateAPIKeyRequest issues a named API key for the authenticated user.
type CreateAPIKeyRequest struct {
	Name string `json:"name"`
}

// CreateExpenseRequest records a standalone expense.
type CreateExpenseRequest struct {
	Amount      string `json:"amount"`
	OccurredOn  string `json:"occurredOn"`
	Description string `json:"description"`
}
