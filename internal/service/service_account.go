package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/idempotency"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/models"
)

// defaultCurrency is assigned to every new account.
const defaultCurrency = "MXN"

// accountService is the concrete implementation of AccountService. Mutations
// run through the idempotency executor keyed by the client-supplied
// Idempotency-Key.
type accountService struct {
	accountRepository store.AccountRepository
	executor          *idempotency.Executor
	logger            *logger.Logger
}

// NewAccountService constructs an AccountService over the given repository
// and idempotency executor.
func NewAccountService(accountRepository store.AccountRepository, executor *idempotency.Executor, logger *logger.Logger) AccountService {
	return &accountService{
		accountRepository: accountRepository,
		executor:          executor,
		logger:            logger,
	}
}

// CreateAccount opens a new account for the user. Retries with the same
// idempotency key replay the first response instead of opening another
// account.
func (s *accountService) CreateAccount(ctx context.Context, userID uuid.UUID, request models.CreateAccountRequest, idempotencyKey string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if request.Name == "" || !models.ValidAccountType(request.Type) {
		log.Error().Str("type", string(request.Type)).Msg("invalid account data provided")
		return models.Account{}, ErrInvalidDataProvided
	}

	fingerprint := idempotency.Fingerprint("create-account", userID.String(), request.Name, string(request.Type))

	account, _, err := idempotency.Execute(ctx, s.executor, idempotencyKey, fingerprint,
		func(ctx context.Context) (models.Account, error) {
			return s.accountRepository.CreateAccount(ctx, models.Account{
				ID:       uuid.New(),
				UserID:   userID,
				Name:     request.Name,
				Type:     request.Type,
				Currency: defaultCurrency,
			})
		})

	return account, err
}

func (s *accountService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	return s.accountRepository.ListAccounts(ctx, userID)
}

// DisableAccount marks the account disabled. Disabling an already-disabled
// account is a no-op, so replays and manual retries both succeed quietly.
func (s *accountService) DisableAccount(ctx context.Context, userID, accountID uuid.UUID, idempotencyKey string) error {
	fingerprint := idempotency.Fingerprint("disable-account", userID.String(), accountID.String())

	_, err := s.executor.Do(ctx, idempotencyKey, fingerprint, func(ctx context.Context) error {
		account, err := s.accountRepository.FindAccount(ctx, accountID, userID)
		if err != nil {
			return err
		}
		if account.DisabledAt != nil {
			return nil
		}

		if _, err := s.accountRepository.DisableAccount(ctx, accountID, userID, time.Now()); err != nil {
			// a concurrent disable winning between the read and the update
			// leaves the account in the state we wanted anyway
			if errors.Is(err, store.ErrAccountNotFound) {
				return nil
			}
			return err
		}
		return nil
	})

	return err
}
