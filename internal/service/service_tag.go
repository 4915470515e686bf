package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/idempotency"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/models"
)

// tagService is the concrete implementation of TagService.
//
// Tag creation is race-safe without any locking: the insert relies on the
// (user_id, lower(name)) unique index, and a loser of the insert race simply
// re-reads the row the winner created. First-seen casing is the stored
// display form.
type tagService struct {
	tagRepository store.TagRepository
	executor      *idempotency.Executor
	logger        *logger.Logger
}

// NewTagService constructs a TagService over the given repository and
// idempotency executor.
func NewTagService(tagRepository store.TagRepository, executor *idempotency.Executor, logger *logger.Logger) TagService {
	return &tagService{
		tagRepository: tagRepository,
		executor:      executor,
		logger:        logger,
	}
}

func (s *tagService) ListTags(ctx context.Context, userID uuid.UUID) ([]models.Tag, error) {
	return s.tagRepository.ListTags(ctx, userID)
}

// CreateTag finds or creates the named tag. The fingerprint uses the
// case-folded name, so "Food" and "food" under the same key replay rather
// than conflict.
func (s *tagService) CreateTag(ctx context.Context, userID uuid.UUID, request models.CreateTagRequest, idempotencyKey string) (models.Tag, error) {
	log := logger.FromContext(ctx)

	name := strings.TrimSpace(request.Name)
	if name == "" {
		log.Error().Msg("empty tag name provided")
		return models.Tag{}, ErrInvalidDataProvided
	}

	fingerprint := idempotency.Fingerprint("create-tag", userID.String(), strings.ToLower(name))

	tag, _, err := idempotency.Execute(ctx, s.executor, idempotencyKey, fingerprint,
		func(ctx context.Context) (models.Tag, error) {
			return s.findOrCreate(ctx, userID, name)
		})

	return tag, err
}

// ResolveTags implements the lookup-or-create pass described on the
// interface. Missing names are collected and reported together so a client
// can fix its whole request in one round trip.
func (s *tagService) ResolveTags(ctx context.Context, userID uuid.UUID, names []string, createMissing bool) ([]models.Tag, error) {
	normalized := normalizeTagNames(names)
	if len(normalized) == 0 {
		return []models.Tag{}, nil
	}

	resolved := make([]models.Tag, 0, len(normalized))
	var missing []string

	for _, name := range normalized {
		tag, err := s.tagRepository.FindTagByName(ctx, userID, name)
		if err == nil {
			resolved = append(resolved, tag)
			continue
		}
		if !errors.Is(err, store.ErrTagNotFound) {
			return nil, err
		}

		if !createMissing {
			missing = append(missing, name)
			continue
		}

		created, err := s.findOrCreate(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, created)
	}

	if len(missing) > 0 {
		return nil, &TagsNotFoundError{Names: missing}
	}

	return resolved, nil
}

// findOrCreate returns the existing tag or inserts a new one. A unique
// violation on insert means a concurrent request won the race; the winning
// row is re-read and returned.
func (s *tagService) findOrCreate(ctx context.Context, userID uuid.UUID, name string) (models.Tag, error) {
	tag, err := s.tagRepository.FindTagByName(ctx, userID, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, store.ErrTagNotFound) {
		return models.Tag{}, err
	}

	created, err := s.tagRepository.CreateTag(ctx, models.Tag{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	})
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, store.ErrTagAlreadyExists) {
		return models.Tag{}, err
	}

	return s.tagRepository.FindTagByName(ctx, userID, name)
}
