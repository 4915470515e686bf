package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/planifi/backend/internal/logger"
)

// settingRepository is the PostgreSQL-backed implementation of
// [SettingRepository] over the "system_settings" key/value table.
type settingRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSettingRepository constructs a [SettingRepository] backed by the
// provided database connection and logger.
func NewSettingRepository(db *DB, logger *logger.Logger) SettingRepository {
	logger.Debug().Msg("creating setting repository")
	return &settingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *settingRepository) UpsertSetting(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, upsertSetting, key, value); err != nil {
		log.Err(err).Str("func", "*settingRepository.UpsertSetting").Msg("error executing statement")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}

func (r *settingRepository) GetSetting(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	var value string
	row := r.db.QueryRowContext(ctx, getSetting, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		log.Err(err).Str("func", "*settingRepository.GetSetting").Msg("error: scanning error")
		return "", err
	}

	return value, nil
}
