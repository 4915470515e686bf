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

// apiKeyRepository is the PostgreSQL-backed implementation of
// [APIKeyRepository]. Only key hashes ever touch this table; raw key
// material stays in memory for the single response that carries it.
type apiKeyRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAPIKeyRepository constructs an [APIKeyRepository] backed by the provided
// database connection and logger.
func NewAPIKeyRepository(db *DB, logger *logger.Logger) APIKeyRepository {
	logger.Debug().Msg("creating api key repository")
	return &apiKeyRepository{
		db:     db,
		logger: logger,
	}
}

func (r *apiKeyRepository) CreateAPIKey(ctx context.Context, key models.APIKey) (models.APIKey, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createAPIKey, key.ID, key.UserID, key.Name, key.KeyHash)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*apiKeyRepository.CreateAPIKey").Msg("error: row is nil")
		return models.APIKey{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := row.Scan(&key.ID, &key.UserID, &key.Name, &key.KeyHash, &key.CreatedAt, &key.RevokedAt); err != nil {
		log.Err(err).Str("func", "*apiKeyRepository.CreateAPIKey").Msg("error: scanning error")
		return models.APIKey{}, err
	}

	return key, nil
}

// FindActiveAPIKeyByHash resolves a presented key to its owner. Revoked keys
// never match.
func (r *apiKeyRepository) FindActiveAPIKeyByHash(ctx context.Context, keyHash string) (models.APIKey, error) {
	log := logger.FromContext(ctx)

	var key models.APIKey
	row := r.db.QueryRowContext(ctx, findActiveAPIKeyByHash, keyHash)
	if err := row.Scan(&key.ID, &key.UserID, &key.Name, &key.KeyHash, &key.CreatedAt, &key.RevokedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.APIKey{}, ErrAPIKeyNotFound
		}
		log.Err(err).Str("func", "*apiKeyRepository.FindActiveAPIKeyByHash").Msg("error: scanning error")
		return models.APIKey{}, err
	}

	return key, nil
}

func (r *apiKeyRepository) FindAPIKey(ctx context.Context, keyID, userID uuid.UUID) (models.APIKey, error) {
	log := logger.FromContext(ctx)

	var key models.APIKey
	row := r.db.QueryRowContext(ctx, findAPIKey, keyID, userID)
	if err := row.Scan(&key.ID, &key.UserID, &key.Name, &key.KeyHash, &key.CreatedAt, &key.RevokedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.APIKey{}, ErrAPIKeyNotFound
		}
		log.Err(err).Str("func", "*apiKeyRepository.FindAPIKey").Msg("error: scanning error")
		return models.APIKey{}, err
	}

	return key, nil
}

// RevokeAPIKey stamps revoked_at on an active key. Matching no row means the
// key does not exist, belongs to someone else, or is already revoked; all
// three surface as [ErrAPIKeyNotFound].
func (r *apiKeyRepository) RevokeAPIKey(ctx context.Context, keyID, userID uuid.UUID, at time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, revokeAPIKey, keyID, userID, at)
	if err != nil {
		log.Err(err).Str("func", "*apiKeyRepository.RevokeAPIKey").Msg("error executing statement")
		return errors.Join(ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Join(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrAPIKeyNotFound
	}

	return nil
}
