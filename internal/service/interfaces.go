package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/models"
)

type AuthService interface {
	Register(ctx context.Context, request models.RegisterRequest) (models.AuthResponse, error)
	Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AccountService interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, request models.CreateAccountRequest, idempotencyKey string) (models.Account, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
	DisableAccount(ctx context.Context, userID, accountID uuid.UUID, idempotencyKey string) error
}

type TransactionService interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, request models.CreateTransactionRequest, idempotencyKey string) (models.TransactionWithTags, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filter store.TransactionFilter) (models.TransactionPage, error)
}

type TagService interface {
	ListTags(ctx context.Context, userID uuid.UUID) ([]models.Tag, error)
	CreateTag(ctx context.Context, userID uuid.UUID, request models.CreateTagRequest, idempotencyKey string) (models.Tag, error)
	// ResolveTags maps tag names to tag rows: trims, drops empties,
	// deduplicates case-insensitively keeping first casing and order, and
	// either creates missing tags or reports them all via
	// [*TagsNotFoundError].
	ResolveTags(ctx context.Context, userID uuid.UUID, names []string, createMissing bool) ([]models.Tag, error)
}

type APIKeyService interface {
	CreateAPIKey(ctx context.Context, userID uuid.UUID, request models.CreateAPIKeyRequest, idempotencyKey string) (models.APIKeySecret, error)
	RotateAPIKey(ctx context.Context, userID, keyID uuid.UUID, idempotencyKey string) (models.APIKeySecret, error)
	RevokeAPIKey(ctx context.Context, userID, keyID uuid.UUID, idempotencyKey string) error
	// FindActiveKey resolves a raw presented key to its stored record for
	// the authentication chain. Revoked keys never match.
	FindActiveKey(ctx context.Context, rawKey string) (models.APIKey, error)
}

type ExpenseService interface {
	ListExpenses(ctx context.Context) ([]models.Expense, error)
	CreateExpense(ctx context.Context, request models.CreateExpenseRequest) (models.Expense, error)
}
