package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/config"
	"github.com/planifi/backend/internal/idempotency"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/internal/utils"
	"github.com/planifi/backend/models"
)

// secretBytes is the entropy of a generated API key secret.
const secretBytes = 32

// apiKeyService is the concrete implementation of APIKeyService.
//
// A key value has the form "<prefix>_<keyId>_<base64url secret>". Only its
// SHA-256 hash is persisted; the raw value exists exactly once, inside the
// creation response.
type apiKeyService struct {
	apiKeyRepository store.APIKeyRepository
	keyPrefix        string
	executor         *idempotency.Executor
	logger           *logger.Logger
}

// NewAPIKeyService constructs an APIKeyService over the given repository and
// idempotency executor.
func NewAPIKeyService(apiKeyRepository store.APIKeyRepository, cfg config.Security, executor *idempotency.Executor, logger *logger.Logger) APIKeyService {
	return &apiKeyService{
		apiKeyRepository: apiKeyRepository,
		keyPrefix:        cfg.APIKeyPrefix,
		executor:         executor,
		logger:           logger,
	}
}

// CreateAPIKey issues a new key for the user. Replays under the same
// idempotency key return the original secret rather than minting another.
func (s *apiKeyService) CreateAPIKey(ctx context.Context, userID uuid.UUID, request models.CreateAPIKeyRequest, idempotencyKey string) (models.APIKeySecret, error) {
	log := logger.FromContext(ctx)

	if request.Name == "" {
		log.Error().Msg("empty api key name provided")
		return models.APIKeySecret{}, ErrInvalidDataProvided
	}

	fingerprint := idempotency.Fingerprint("create", userID.String(), request.Name)

	secret, _, err := idempotency.Execute(ctx, s.executor, idempotencyKey, fingerprint,
		func(ctx context.Context) (models.APIKeySecret, error) {
			return s.createKeyForUser(ctx, userID, request.Name)
		})

	return secret, err
}

// RotateAPIKey revokes the existing key and issues a fresh one under the
// same name. The old key stops authenticating immediately.
func (s *apiKeyService) RotateAPIKey(ctx context.Context, userID, keyID uuid.UUID, idempotencyKey string) (models.APIKeySecret, error) {
	fingerprint := idempotency.Fingerprint("rotate", userID.String(), keyID.String())

	secret, _, err := idempotency.Execute(ctx, s.executor, idempotencyKey, fingerprint,
		func(ctx context.Context) (models.APIKeySecret, error) {
			existing, err := s.apiKeyRepository.FindAPIKey(ctx, keyID, userID)
			if err != nil {
				return models.APIKeySecret{}, err
			}

			if existing.RevokedAt == nil {
				if err := s.apiKeyRepository.RevokeAPIKey(ctx, keyID, userID, time.Now()); err != nil {
					return models.APIKeySecret{}, err
				}
			}

			return s.createKeyForUser(ctx, userID, existing.Name)
		})

	return secret, err
}

// RevokeAPIKey stamps the key revoked. Revoking an already-revoked key is a
// no-op.
func (s *apiKeyService) RevokeAPIKey(ctx context.Context, userID, keyID uuid.UUID, idempotencyKey string) error {
	fingerprint := idempotency.Fingerprint("revoke", userID.String(), keyID.String())

	_, err := s.executor.Do(ctx, idempotencyKey, fingerprint, func(ctx context.Context) error {
		existing, err := s.apiKeyRepository.FindAPIKey(ctx, keyID, userID)
		if err != nil {
			return err
		}
		if existing.RevokedAt != nil {
			return nil
		}

		return s.apiKeyRepository.RevokeAPIKey(ctx, keyID, userID, time.Now())
	})

	return err
}

// FindActiveKey hashes the presented raw key and looks it up. Used by the
// authentication chain; revoked keys never match.
func (s *apiKeyService) FindActiveKey(ctx context.Context, rawKey string) (models.APIKey, error) {
	return s.apiKeyRepository.FindActiveAPIKeyByHash(ctx, utils.HashSHA256(rawKey))
}

func (s *apiKeyService) createKeyForUser(ctx context.Context, userID uuid.UUID, name string) (models.APIKeySecret, error) {
	keyID := uuid.New()

	secret, err := generateSecret()
	if err != nil {
		return models.APIKeySecret{}, fmt.Errorf("error generating api key secret: %w", err)
	}
	rawKey := fmt.Sprintf("%s_%s_%s", s.keyPrefix, keyID, secret)

	created, err := s.apiKeyRepository.CreateAPIKey(ctx, models.APIKey{
		ID:      keyID,
		UserID:  userID,
		Name:    name,
		KeyHash: utils.HashSHA256(rawKey),
	})
	if err != nil {
		return models.APIKeySecret{}, fmt.Errorf("api key creation ended with error: %w", err)
	}

	return models.APIKeySecret{
		ID:        created.ID,
		UserID:    created.UserID,
		Name:      created.Name,
		APIKey:    rawKey,
		CreatedAt: created.CreatedAt,
	}, nil
}

func generateSecret() (string, error) {
	buffer := make([]byte, secretBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}
