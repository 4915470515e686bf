package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/models"
)

// tagRepository is the PostgreSQL-backed implementation of [TagRepository].
//
// Tag names are unique per user case-insensitively: the table carries a
// unique index on (user_id, lower(name)). Two requests racing to create the
// same name produce exactly one row; the loser observes a unique violation
// and is expected to re-read the winner via [FindTagByName].
type tagRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTagRepository constructs a [TagRepository] backed by the provided
// database connection and logger.
func NewTagRepository(db *DB, logger *logger.Logger) TagRepository {
	logger.Debug().Msg("creating tag repository")
	return &tagRepository{
		db:     db,
		logger: logger,
	}
}

// CreateTag inserts a tag preserving the caller's casing as the display form.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrTagAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *tagRepository) CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createTag, tag.ID, tag.UserID, tag.Name)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*tagRepository.CreateTag").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Tag{}, ErrTagAlreadyExists
		default:
			return models.Tag{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	if err := row.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Tag{}, ErrTagAlreadyExists
		}
		log.Err(err).Str("func", "*tagRepository.CreateTag").Msg("error: scanning error")
		return models.Tag{}, err
	}

	return tag, nil
}

// FindTagByName looks a tag up case-insensitively by its name.
func (r *tagRepository) FindTagByName(ctx context.Context, userID uuid.UUID, name string) (models.Tag, error) {
	log := logger.FromContext(ctx)

	var tag models.Tag
	row := r.db.QueryRowContext(ctx, findTagByName, userID, name)
	if err := row.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tag{}, ErrTagNotFound
		}
		log.Err(err).Str("func", "*tagRepository.FindTagByName").Msg("error: scanning error")
		return models.Tag{}, err
	}

	return tag, nil
}

func (r *tagRepository) ListTags(ctx context.Context, userID uuid.UUID) ([]models.Tag, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listTags, userID)
	if err != nil {
		log.Err(err).Str("func", "*tagRepository.ListTags").Msg("error executing query")
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			log.Err(err).Str("func", "*tagRepository.ListTags").Msg("error scanning rows")
			return nil, errors.Join(ErrScanningRows, err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRows, err)
	}

	return tags, nil
}
