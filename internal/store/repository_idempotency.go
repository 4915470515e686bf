package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/models"
)

// idempotencyRepository is the PostgreSQL-backed implementation of
// [IdempotencyRepository] over the "idempotency_keys" table.
//
// The table's primary key on "key" is what makes reservations race-safe:
// `INSERT ... ON CONFLICT (key) DO NOTHING` admits exactly one of any number
// of concurrent claimants, and the losers learn their fate from the affected
// row count without ever observing a driver error.
type idempotencyRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewIdempotencyRepository constructs an [IdempotencyRepository] backed by
// the provided database connection and logger.
func NewIdempotencyRepository(db *DB, logger *logger.Logger) IdempotencyRepository {
	logger.Debug().Msg("creating idempotency repository")
	return &idempotencyRepository{
		db:     db,
		logger: logger,
	}
}

// Reserve claims the key atomically with an IN_PROGRESS record.
//
// Error handling:
//   - Zero rows affected → [ErrIdempotencyKeyTaken]: another request holds
//     the key (in progress or completed).
//   - Any driver-level error → wrapped with [ErrExecutingStatement].
func (r *idempotencyRepository) Reserve(ctx context.Context, key, fingerprint string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, reserveIdempotencyKey, key, fingerprint)
	if err != nil {
		log.Err(err).Str("func", "*idempotencyRepository.Reserve").Msg("error executing statement")
		return errors.Join(ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Join(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrIdempotencyKeyTaken
	}

	return nil
}

func (r *idempotencyRepository) Get(ctx context.Context, key string) (models.IdempotencyRecord, error) {
	log := logger.FromContext(ctx)

	var record models.IdempotencyRecord
	row := r.db.QueryRowContext(ctx, getIdempotencyRecord, key)
	if err := row.Scan(&record.Key, &record.Fingerprint, &record.ResponseBody, &record.Status, &record.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.IdempotencyRecord{}, ErrIdempotencyRecordNotFound
		}
		log.Err(err).Str("func", "*idempotencyRepository.Get").Msg("error: scanning error")
		return models.IdempotencyRecord{}, err
	}

	return record, nil
}

// Complete flips the record to COMPLETED and stores the response snapshot.
// responseBody may be nil for void operations.
func (r *idempotencyRepository) Complete(ctx context.Context, key string, responseBody []byte) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, completeIdempotencyRecord, key, responseBody)
	if err != nil {
		log.Err(err).Str("func", "*idempotencyRepository.Complete").Msg("error executing statement")
		return errors.Join(ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Join(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrIdempotencyRecordNotFound
	}

	return nil
}

// DeleteReservation removes an IN_PROGRESS record after the guarded action
// failed. Completed records are never deleted here; retention handles those.
func (r *idempotencyRepository) DeleteReservation(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteIdempotencyReservation, key); err != nil {
		log.Err(err).Str("func", "*idempotencyRepository.DeleteReservation").Msg("error executing statement")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}

// PurgeOlderThan removes records created before the cutoff and reports how
// many rows went away.
func (r *idempotencyRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, purgeIdempotencyRecords, cutoff)
	if err != nil {
		log.Err(err).Str("func", "*idempotencyRepository.PurgeOlderThan").Msg("error executing statement")
		return 0, errors.Join(ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Join(ErrExecutingStatement, err)
	}

	return affected, nil
}
