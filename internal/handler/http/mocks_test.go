package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/config"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/metrics"
	"github.com/planifi/backend/internal/rate"
	"github.com/planifi/backend/internal/service"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/models"
)

// ---- Helpers ----

func testConfig() *config.StructuredConfig {
	return &config.StructuredConfig{
		Security: config.Security{
			APIKeyHeader: "X-MCP-API-Key",
			APIKeyPrefix: "pln",
		},
		RateLimit: config.RateLimit{
			RequestsPerMinute: 60,
			Burst:             20,
			BucketTTL:         10 * time.Minute,
			SweepInterval:     time.Minute,
		},
	}
}

func newTestHandler(services *service.Services, cfg *config.StructuredConfig) *Handler {
	if cfg == nil {
		cfg = testConfig()
	}
	return NewHandler(services, rate.NewLimiter(cfg.RateLimit, logger.Nop()), metrics.New(), cfg, logger.Nop())
}

// injectNopLogger places a nop logger into the request context so middleware
// under test can call logger.FromRequest.
func injectNopLogger(r *http.Request) *http.Request {
	nop := logger.Nop()
	ctx := nop.Logger.WithContext(r.Context())
	return r.WithContext(ctx)
}

// ---- Mock: service.AuthService ----

type mockAuthService struct {
	registerFn   func(ctx context.Context, request models.RegisterRequest) (models.AuthResponse, error)
	loginFn      func(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error)
	parseTokenFn func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) Register(ctx context.Context, request models.RegisterRequest) (models.AuthResponse, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, request)
	}
	return models.AuthResponse{}, nil
}

func (m *mockAuthService) Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, request)
	}
	return models.AuthResponse{}, nil
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if m.parseTokenFn != nil {
		return m.parseTokenFn(ctx, tokenString)
	}
	return models.Token{}, service.ErrInvalidCredentials
}

// ---- Mock: service.AccountService ----

type mockAccountService struct {
	createAccountFn  func(ctx context.Context, userID uuid.UUID, request models.CreateAccountRequest, idempotencyKey string) (models.Account, error)
	listAccountsFn   func(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
	disableAccountFn func(ctx context.Context, userID, accountID uuid.UUID, idempotencyKey string) error
}

func (m *mockAccountService) CreateAccount(ctx context.Context, userID uuid.UUID, request models.CreateAccountRequest, idempotencyKey string) (models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, userID, request, idempotencyKey)
	}
	return models.Account{ID: uuid.New(), UserID: userID, Name: request.Name, Type: request.Type}, nil
}

func (m *mockAccountService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	if m.listAccountsFn != nil {
		return m.listAccountsFn(ctx, userID)
	}
	return []models.Account{}, nil
}

func (m *mockAccountService) DisableAccount(ctx context.Context, userID, accountID uuid.UUID, idempotencyKey string) error {
	if m.disableAccountFn != nil {
		return m.disableAccountFn(ctx, userID, accountID, idempotencyKey)
	}
	return nil
}

// ---- Mock: service.TransactionService ----

type mockTransactionService struct {
	createTransactionFn func(ctx context.Context, userID uuid.UUID, request models.CreateTransactionRequest, idempotencyKey string) (models.TransactionWithTags, error)
	listTransactionsFn  func(ctx context.Context, userID uuid.UUID, filter store.TransactionFilter) (models.TransactionPage, error)
}

func (m *mockTransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, request models.CreateTransactionRequest, idempotencyKey string) (models.TransactionWithTags, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(ctx, userID, request, idempotencyKey)
	}
	return models.TransactionWithTags{}, nil
}

func (m *mockTransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, filter store.TransactionFilter) (models.TransactionPage, error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(ctx, userID, filter)
	}
	return models.TransactionPage{}, nil
}

// ---- Mock: service.TagService ----

type mockTagService struct {
	listTagsFn    func(ctx context.Context, userID uuid.UUID) ([]models.Tag, error)
	createTagFn   func(ctx context.Context, userID uuid.UUID, request models.CreateTagRequest, idempotencyKey string) (models.Tag, error)
	resolveTagsFn func(ctx context.Context, userID uuid.UUID, names []string, createMissing bool) ([]models.Tag, error)
}

func (m *mockTagService) ListTags(ctx context.Context, userID uuid.UUID) ([]models.Tag, error) {
	if m.listTagsFn != nil {
		return m.listTagsFn(ctx, userID)
	}
	return []models.Tag{}, nil
}

func (m *mockTagService) CreateTag(ctx context.Context, userID uuid.UUID, request models.CreateTagRequest, idempotencyKey string) (models.Tag, error) {
	if m.createTagFn != nil {
		return m.createTagFn(ctx, userID, request, idempotencyKey)
	}
	return models.Tag{ID: uuid.New(), UserID: userID, Name: request.Name}, nil
}

func (m *mockTagService) ResolveTags(ctx context.Context, userID uuid.UUID, names []string, createMissing bool) ([]models.Tag, error) {
	if m.resolveTagsFn != nil {
		return m.resolveTagsFn(ctx, userID, names, createMissing)
	}
	return []models.Tag{}, nil
}

// ---- Mock: service.APIKeyService ----

type mockAPIKeyService struct {
	createAPIKeyFn  func(ctx context.Context, userID uuid.UUID, request models.CreateAPIKeyRequest, idempotencyKey string) (models.APIKeySecret, error)
	rotateAPIKeyFn  func(ctx context.Context, userID, keyID uuid.UUID, idempotencyKey string) (models.APIKeySecret, error)
	revokeAPIKeyFn  func(ctx context.Context, userID, keyID uuid.UUID, idempotencyKey string) error
	findActiveKeyFn func(ctx context.Context, rawKey string) (models.APIKey, error)
}

func (m *mockAPIKeyService) CreateAPIKey(ctx context.Context, userID uuid.UUID, request models.CreateAPIKeyRequest, idempotencyKey string) (models.APIKeySecret, error) {
	if m.createAPIKeyFn != nil {
		return m.createAPIKeyFn(ctx, userID, request, idempotencyKey)
	}
	return models.APIKeySecret{}, nil
}

func (m *mockAPIKeyService) RotateAPIKey(ctx context.Context, userID, keyID uuid.UUID, idempotencyKey string) (models.APIKeySecret, error) {
	if m.rotateAPIKeyFn != nil {
		return m.rotateAPIKeyFn(ctx, userID, keyID, idempotencyKey)
	}
	return models.APIKeySecret{}, nil
}

func (m *mockAPIKeyService) RevokeAPIKey(ctx context.Context, userID, keyID uuid.UUID, idempotencyKey string) error {
	if m.revokeAPIKeyFn != nil {
		return m.revokeAPIKeyFn(ctx, userID, keyID, idempotencyKey)
	}
	return nil
}

func (m *mockAPIKeyService) FindActiveKey(ctx context.Context, rawKey string) (models.APIKey, error) {
	if m.findActiveKeyFn != nil {
		return m.findActiveKeyFn(ctx, rawKey)
	}
	return models.APIKey{}, store.ErrAPIKeyNotFound
}

// ---- Mock: service.ExpenseService ----

type mockExpenseService struct {
	listExpensesFn  func(ctx context.Context) ([]models.Expense, error)
	createExpenseFn func(ctx context.Context, request models.CreateExpenseRequest) (models.Expense, error)
}

func (m *mockExpenseService) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	if m.listExpensesFn != nil {
		return m.listExpensesFn(ctx)
	}
	return []models.Expense{}, nil
}

func (m *mockExpenseService) CreateExpense(ctx context.Context, request models.CreateExpenseRequest) (models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(ctx, request)
	}
	return models.Expense{ID: uuid.New()}, nil
}

func allMockServices() *service.Services {
	return &service.Services{
		AuthService:        &mockAuthService{},
		AccountService:     &mockAccountService{},
		TransactionService: &mockTransactionService{},
		TagService:         &mockTagService{},
		APIKeyService:      &mockAPIKeyService{},
		ExpenseService:     &mockExpenseService{},
	}
}
