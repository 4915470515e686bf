package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/models"
)

// accountRepository is the PostgreSQL-backed implementation of
// [AccountRepository] over the "accounts" table.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createAccount, account.ID, account.UserID, account.Name, account.Type, account.Currency)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: row is nil")
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := scanAccount(row, &account); err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: scanning error")
		return models.Account{}, err
	}

	return account, nil
}

// ListAccounts returns the user's active accounts ordered by creation time.
// Disabled accounts are excluded.
func (r *accountRepository) ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listAccounts, userID)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.ListAccounts").Msg("error executing query")
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		var account models.Account
		if err := scanAccount(rows, &account); err != nil {
			log.Err(err).Str("func", "*accountRepository.ListAccounts").Msg("error scanning rows")
			return nil, errors.Join(ErrScanningRows, err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRows, err)
	}

	return accounts, nil
}

func (r *accountRepository) FindAccount(ctx context.Context, accountID, userID uuid.UUID) (models.Account, error) {
	log := logger.FromContext(ctx)

	var account models.Account
	row := r.db.QueryRowContext(ctx, findAccount, accountID, userID)
	if err := scanAccount(row, &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.FindAccount").Msg("error: scanning error")
		return models.Account{}, err
	}

	return account, nil
}

// DisableAccount marks the account disabled at the given instant. Disabling
// an already-disabled account matches no row and returns
// [ErrAccountNotFound]; callers treat that as a no-op after re-reading.
func (r *accountRepository) DisableAccount(ctx context.Context, accountID, userID uuid.UUID, at time.Time) (models.Account, error) {
	log := logger.FromContext(ctx)

	var account models.Account
	row := r.db.QueryRowContext(ctx, disableAccount, accountID, userID, at)
	if err := scanAccount(row, &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.DisableAccount").Msg("error: scanning error")
		return models.Account{}, err
	}

	return account, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner, account *models.Account) error {
	return row.Scan(&account.ID, &account.UserID, &account.Name, &account.Type, &account.Currency, &account.CreatedAt, &account.DisabledAt)
}
