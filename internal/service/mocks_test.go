package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/config"
	"github.com/planifi/backend/internal/idempotency"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/models"
)

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createUserFn      func(ctx context.Context, user models.User) (models.User, error)
	findUserByEmailFn func(ctx context.Context, email string) (models.User, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.findUserByEmailFn != nil {
		return m.findUserByEmailFn(ctx, email)
	}
	return models.User{}, store.ErrNoUserWasFound
}

// ─────────────────────────────────────────────
// Mock: store.AccountRepository
// ─────────────────────────────────────────────

type mockAccountRepository struct {
	createAccountFn  func(ctx context.Context, account models.Account) (models.Account, error)
	listAccountsFn   func(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
	findAccountFn    func(ctx context.Context, accountID, userID uuid.UUID) (models.Account, error)
	disableAccountFn func(ctx context.Context, accountID, userID uuid.UUID, at time.Time) (models.Account, error)
}

func (m *mockAccountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, account)
	}
	return account, nil
}

func (m *mockAccountRepository) ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	if m.listAccountsFn != nil {
		return m.listAccountsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAccountRepository) FindAccount(ctx context.Context, accountID, userID uuid.UUID) (models.Account, error) {
	if m.findAccountFn != nil {
		return m.findAccountFn(ctx, accountID, userID)
	}
	return models.Account{}, store.ErrAccountNotFound
}

func (m *mockAccountRepository) DisableAccount(ctx context.Context, accountID, userID uuid.UUID, at time.Time) (models.Account, error) {
	if m.disableAccountFn != nil {
		return m.disableAccountFn(ctx, accountID, userID, at)
	}
	return models.Account{}, store.ErrAccountNotFound
}

// ─────────────────────────────────────────────
// Mock: store.TransactionRepository
// ─────────────────────────────────────────────

type mockTransactionRepository struct {
	createTransactionFn func(ctx context.Context, transaction models.Transaction, tagIDs []uuid.UUID) (models.Transaction, error)
	listTransactionsFn  func(ctx context.Context, filter store.TransactionFilter) ([]models.TransactionWithTags, int64, error)
}

func (m *mockTransactionRepository) CreateTransaction(ctx context.Context, transaction models.Transaction, tagIDs []uuid.UUID) (models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(ctx, transaction, tagIDs)
	}
	return transaction, nil
}

func (m *mockTransactionRepository) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]models.TransactionWithTags, int64, error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(ctx, filter)
	}
	return nil, 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.TagRepository
// ─────────────────────────────────────────────

type mockTagRepository struct {
	createTagFn     func(ctx context.Context, tag models.Tag) (models.Tag, error)
	findTagByNameFn func(ctx context.Context, userID uuid.UUID, name string) (models.Tag, error)
	listTagsFn      func(ctx context.Context, userID uuid.UUID) ([]models.Tag, error)
}

func (m *mockTagRepository) CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	if m.createTagFn != nil {
		return m.createTagFn(ctx, tag)
	}
	return tag, nil
}

func (m *mockTagRepository) FindTagByName(ctx context.Context, userID uuid.UUID, name string) (models.Tag, error) {
	if m.findTagByNameFn != nil {
		return m.findTagByNameFn(ctx, userID, name)
	}
	return models.Tag{}, store.ErrTagNotFound
}

func (m *mockTagRepository) ListTags(ctx context.Context, userID uuid.UUID) ([]models.Tag, error) {
	if m.listTagsFn != nil {
		return m.listTagsFn(ctx, userID)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: store.APIKeyRepository
// ─────────────────────────────────────────────

type mockAPIKeyRepository struct {
	createAPIKeyFn           func(ctx context.Context, key models.APIKey) (models.APIKey, error)
	findActiveAPIKeyByHashFn func(ctx context.Context, keyHash string) (models.APIKey, error)
	findAPIKeyFn             func(ctx context.Context, keyID, userID uuid.UUID) (models.APIKey, error)
	revokeAPIKeyFn           func(ctx context.Context, keyID, userID uuid.UUID, at time.Time) error
}

func (m *mockAPIKeyRepository) CreateAPIKey(ctx context.Context, key models.APIKey) (models.APIKey, error) {
	if m.createAPIKeyFn != nil {
		return m.createAPIKeyFn(ctx, key)
	}
	key.CreatedAt = time.Now()
	return key, nil
}

func (m *mockAPIKeyRepository) FindActiveAPIKeyByHash(ctx context.Context, keyHash string) (models.APIKey, error) {
	if m.findActiveAPIKeyByHashFn != nil {
		return m.findActiveAPIKeyByHashFn(ctx, keyHash)
	}
	return models.APIKey{}, store.ErrAPIKeyNotFound
}

func (m *mockAPIKeyRepository) FindAPIKey(ctx context.Context, keyID, userID uuid.UUID) (models.APIKey, error) {
	if m.findAPIKeyFn != nil {
		return m.findAPIKeyFn(ctx, keyID, userID)
	}
	return models.APIKey{}, store.ErrAPIKeyNotFound
}

func (m *mockAPIKeyRepository) RevokeAPIKey(ctx context.Context, keyID, userID uuid.UUID, at time.Time) error {
	if m.revokeAPIKeyFn != nil {
		return m.revokeAPIKeyFn(ctx, keyID, userID, at)
	}
	return nil
}

// ─────────────────────────────────────────────
// In-memory idempotency record store
// ─────────────────────────────────────────────

type memoryIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]models.IdempotencyRecord
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{records: make(map[string]models.IdempotencyRecord)}
}

func (s *memoryIdempotencyStore) Reserve(_ context.Context, key, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; ok {
		return store.ErrIdempotencyKeyTaken
	}
	s.records[key] = models.IdempotencyRecord{
		Key:         key,
		Fingerprint: fingerprint,
		Status:      models.IdempotencyInProgress,
		CreatedAt:   time.Now(),
	}
	return nil
}

func (s *memoryIdempotencyStore) Get(_ context.Context, key string) (models.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[key]
	if !ok {
		return models.IdempotencyRecord{}, store.ErrIdempotencyRecordNotFound
	}
	return record, nil
}

func (s *memoryIdempotencyStore) Complete(_ context.Context, key string, responseBody []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[key]
	if !ok {
		return store.ErrIdempotencyRecordNotFound
	}
	record.Status = models.IdempotencyCompleted
	record.ResponseBody = responseBody
	s.records[key] = record
	return nil
}

func (s *memoryIdempotencyStore) DeleteReservation(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[key]; ok && record.Status == models.IdempotencyInProgress {
		delete(s.records, key)
	}
	return nil
}

func (s *memoryIdempotencyStore) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for key, record := range s.records {
		if record.CreatedAt.Before(cutoff) {
			delete(s.records, key)
			purged++
		}
	}
	return purged, nil
}

func newTestExecutor() *idempotency.Executor {
	return idempotency.NewExecutor(newMemoryIdempotencyStore(), config.Idempotency{
		ReplayWait:   200 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	}, logger.Nop())
}
