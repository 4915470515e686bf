package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
}

type AccountRepository interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
	FindAccount(ctx context.Context, accountID, userID uuid.UUID) (models.Account, error)
	DisableAccount(ctx context.Context, accountID, userID uuid.UUID, at time.Time) (models.Account, error)
}

// TransactionFilter narrows a transaction page query. AccountID is mandatory;
// From/To bound occurred_on when non-zero. Page is 1-based.
type TransactionFilter struct {
	AccountID uuid.UUID
	From      time.Time
	To        time.Time
	Page      int
	Size      int
}

type TransactionRepository interface {
	// CreateTransaction persists the transaction and its tag links in one
	// database transaction.
	CreateTransaction(ctx context.Context, transaction models.Transaction, tagIDs []uuid.UUID) (models.Transaction, error)
	// ListTransactions returns one page ordered by occurred_on descending,
	// plus the total row count for the same filter.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.TransactionWithTags, int64, error)
}

type TagRepository interface {
	// CreateTag returns [ErrTagAlreadyExists] when another row already holds
	// (user_id, lower(name)); the caller re-reads the winner.
	CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error)
	FindTagByName(ctx context.Context, userID uuid.UUID, name string) (models.Tag, error)
	ListTags(ctx context.Context, userID uuid.UUID) ([]models.Tag, error)
}

type APIKeyRepository interface {
	CreateAPIKey(ctx context.Context, key models.APIKey) (models.APIKey, error)
	FindActiveAPIKeyByHash(ctx context.Context, keyHash string) (models.APIKey, error)
	FindAPIKey(ctx context.Context, keyID, userID uuid.UUID) (models.APIKey, error)
	RevokeAPIKey(ctx context.Context, keyID, userID uuid.UUID, at time.Time) error
}

type ExpenseRepository interface {
	CreateExpense(ctx context.Context, expense models.Expense) (models.Expense, error)
	ListExpenses(ctx context.Context) ([]models.Expense, error)
}

type IdempotencyRepository interface {
	// Reserve claims the key with an IN_PROGRESS record. Returns
	// [ErrIdempotencyKeyTaken] when the key is already held.
	Reserve(ctx context.Context, key, fingerprint string) error
	Get(ctx context.Context, key string) (models.IdempotencyRecord, error)
	// Complete flips the record to COMPLETED and stores the response snapshot.
	Complete(ctx context.Context, key string, responseBody []byte) error
	// DeleteReservation releases a reservation whose action failed so the
	// client may retry with the same key.
	DeleteReservation(ctx context.Context, key string) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type SettingRepository interface {
	UpsertSetting(ctx context.Context, key, value string) error
	GetSetting(ctx context.Context, key string) (string, error)
}
