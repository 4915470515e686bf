package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/models"
)

// transactionRepository is the PostgreSQL-backed implementation of
// [TransactionRepository] over the "transactions" and "transaction_tags"
// tables.
type transactionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTransactionRepository constructs a [TransactionRepository] backed by the
// provided database connection and logger.
func NewTransactionRepository(db *DB, logger *logger.Logger) TransactionRepository {
	logger.Debug().Msg("creating transaction repository")
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateTransaction persists the transaction row together with its tag links
// inside one database transaction, so a partially linked transaction can
// never be observed. A transient failure (serialization failure, deadlock,
// connection loss) rolls everything back, so the transaction is re-run once
// before the error is surfaced.
func (r *transactionRepository) CreateTransaction(ctx context.Context, transaction models.Transaction, tagIDs []uuid.UUID) (models.Transaction, error) {
	created, err := r.createTransactionTx(ctx, transaction, tagIDs)
	if err != nil && r.db.Retryable(err) {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "*transactionRepository.CreateTransaction").
			Msg("retrying after transient database error")
		return r.createTransactionTx(ctx, transaction, tagIDs)
	}

	return created, err
}

func (r *transactionRepository) createTransactionTx(ctx context.Context, transaction models.Transaction, tagIDs []uuid.UUID) (models.Transaction, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*transactionRepository.CreateTransaction").Msg("error beginning transaction")
		return models.Transaction{}, errors.Join(ErrBeginningTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, createTransaction,
		transaction.ID, transaction.AccountID, transaction.Amount, transaction.OccurredOn, transaction.Description)
	if err := row.Scan(&transaction.ID, &transaction.AccountID, &transaction.Amount, &transaction.OccurredOn, &transaction.Description, &transaction.CreatedAt); err != nil {
		log.Err(err).Str("func", "*transactionRepository.CreateTransaction").Msg("error: scanning error")
		return models.Transaction{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, linkTransactionTag, transaction.ID, tagID); err != nil {
			log.Err(err).Str("func", "*transactionRepository.CreateTransaction").Msg("error linking tag")
			return models.Transaction{}, errors.Join(ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*transactionRepository.CreateTransaction").Msg("error committing transaction")
		return models.Transaction{}, errors.Join(ErrCommitingTransaction, err)
	}

	return transaction, nil
}

// ListTransactions returns one page ordered by occurred_on descending plus
// the total row count for the same filter. Tags are fetched in a second
// query over the page's transaction ids and attached sorted by name.
func (r *transactionRepository) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.TransactionWithTags, int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListTransactionsQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*transactionRepository.ListTransactions").Msg("error building query")
		return nil, 0, errors.Join(ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*transactionRepository.ListTransactions").Msg("error executing query")
		return nil, 0, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.TransactionWithTags, 0, filter.Size)
	ids := make([]uuid.UUID, 0, filter.Size)
	for rows.Next() {
		var transaction models.Transaction
		if err := rows.Scan(&transaction.ID, &transaction.AccountID, &transaction.Amount, &transaction.OccurredOn, &transaction.Description, &transaction.CreatedAt); err != nil {
			log.Err(err).Str("func", "*transactionRepository.ListTransactions").Msg("error scanning rows")
			return nil, 0, errors.Join(ErrScanningRows, err)
		}
		items = append(items, models.TransactionWithTags{Transaction: transaction, Tags: []models.Tag{}})
		ids = append(ids, transaction.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Join(ErrScanningRows, err)
	}

	if err := r.attachTags(ctx, items, ids); err != nil {
		return nil, 0, err
	}

	count, err := r.countTransactions(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (r *transactionRepository) attachTags(ctx context.Context, items []models.TransactionWithTags, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildTransactionTagsQuery(ids)
	if err != nil {
		log.Err(err).Str("func", "*transactionRepository.attachTags").Msg("error building query")
		return errors.Join(ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*transactionRepository.attachTags").Msg("error executing query")
		return errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]int, len(items))
	for i := range items {
		byID[items[i].Transaction.ID] = i
	}

	for rows.Next() {
		var transactionID uuid.UUID
		var tag models.Tag
		if err := rows.Scan(&transactionID, &tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			log.Err(err).Str("func", "*transactionRepository.attachTags").Msg("error scanning rows")
			return errors.Join(ErrScanningRows, err)
		}
		if i, ok := byID[transactionID]; ok {
			items[i].Tags = append(items[i].Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Join(ErrScanningRows, err)
	}

	for i := range items {
		sort.Slice(items[i].Tags, func(a, b int) bool {
			return items[i].Tags[a].Name < items[i].Tags[b].Name
		})
	}

	return nil
}

func (r *transactionRepository) countTransactions(ctx context.Context, filter TransactionFilter) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountTransactionsQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*transactionRepository.countTransactions").Msg("error building query")
		return 0, errors.Join(ErrBuildingSQLQuery, err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*transactionRepository.countTransactions").Msg("error: scanning error")
		return 0, errors.Join(ErrScanningRow, err)
	}

	return count, nil
}
