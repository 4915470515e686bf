package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/service"
	"github.com/planifi/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveRoutes runs one request through the fully assembled router.
func serveRoutes(h *Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "203.0.113.7:51234"
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	rr := httptest.NewRecorder()
	h.Init().ServeHTTP(rr, req)
	return rr
}

func handlerWithUser(t *testing.T, userID uuid.UUID) *Handler {
	t.Helper()
	services := allMockServices()
	services.AuthService = &mockAuthService{
		parseTokenFn: func(_ context.Context, tokenString string) (models.Token, error) {
			if tokenString != "valid-token" {
				return models.Token{}, ErrEmptyToken
			}
			return models.Token{UserID: userID}, nil
		},
	}
	return newTestHandler(services, nil)
}

func TestRoutes_HealthBypassesAuthAndRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.RequestsPerMinute = 1
	cfg.RateLimit.Burst = 0
	h := newTestHandler(allMockServices(), cfg)

	for i := 0; i < 5; i++ {
		rr := serveRoutes(h, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRoutes_MetricsExposed(t *testing.T) {
	h := newTestHandler(allMockServices(), nil)

	rr := serveRoutes(h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestRoutes_RegisterNeedsNoAuthOrIdempotencyKey(t *testing.T) {
	h := newTestHandler(allMockServices(), nil)

	rr := serveRoutes(h, http.MethodPost, "/api/v1/auth/register",
		`{"email":"a@b.c","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))
}

func TestRoutes_AccountsRequireAuthentication(t *testing.T) {
	h := newTestHandler(allMockServices(), nil)

	rr := serveRoutes(h, http.MethodGet, "/api/v1/accounts", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "AUTH_INVALID_TOKEN")
}

func TestRoutes_MutationRequiresIdempotencyKey(t *testing.T) {
	userID := uuid.New()
	h := handlerWithUser(t, userID)

	rr := serveRoutes(h, http.MethodPost, "/api/v1/accounts",
		`{"name":"Main","type":"DEBIT"}`,
		map[string]string{"Authorization": "Bearer valid-token"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "VALIDATION_ERROR")
}

func TestRoutes_CreateAccountEndToEnd(t *testing.T) {
	userID := uuid.New()
	h := handlerWithUser(t, userID)

	rr := serveRoutes(h, http.MethodPost, "/api/v1/accounts",
		`{"name":"Main","type":"DEBIT"}`,
		map[string]string{
			"Authorization":   "Bearer valid-token",
			"Idempotency-Key": "key-1",
		})

	require.Equal(t, http.StatusCreated, rr.Code)

	var account models.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &account))
	assert.Equal(t, userID, account.UserID)
	assert.Equal(t, "Main", account.Name)
}

func TestRoutes_ListTransactionsValidatesQuery(t *testing.T) {
	userID := uuid.New()
	h := handlerWithUser(t, userID)
	auth := map[string]string{"Authorization": "Bearer valid-token"}

	// missing accountId
	rr := serveRoutes(h, http.MethodGet, "/api/v1/transactions", "", auth)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// bad date
	rr = serveRoutes(h, http.MethodGet,
		"/api/v1/transactions?accountId="+uuid.NewString()+"&from=01/08/2026", "", auth)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// well-formed
	rr = serveRoutes(h, http.MethodGet,
		"/api/v1/transactions?accountId="+uuid.NewString()+"&from=2026-08-01&to=2026-08-31&page=2&size=10", "", auth)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_ErrorBodyCarriesTraceID(t *testing.T) {
	h := newTestHandler(allMockServices(), nil)

	rr := serveRoutes(h, http.MethodGet, "/api/v1/accounts", "",
		map[string]string{"X-Trace-ID": "trace-abc"})

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "trace-abc", body.TraceID)
	assert.Equal(t, "AUTH_INVALID_TOKEN", body.ErrorCode)
	assert.Equal(t, "trace-abc", rr.Header().Get("X-Trace-ID"))
}

func TestRoutes_ExpensesNeedNoUser(t *testing.T) {
	h := newTestHandler(allMockServices(), nil)

	rr := serveRoutes(h, http.MethodGet, "/api/v1/expenses", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serveRoutes(h, http.MethodPost, "/api/v1/expenses",
		`{"amount":"12.5","occurredOn":"2026-08-01","description":"taxi"}`, nil)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

// TestRoutes_CreateTransactionUnknownTagsReturnNotFound: a transaction
// referencing tags that do not exist is a missing-resource error, and every
// missing name is enumerated in the message.
func TestRoutes_CreateTransactionUnknownTagsReturnNotFound(t *testing.T) {
	userID := uuid.New()
	h := handlerWithUser(t, userID)
	h.services.TransactionService = &mockTransactionService{
		createTransactionFn: func(_ context.Context, _ uuid.UUID, _ models.CreateTransactionRequest, _ string) (models.TransactionWithTags, error) {
			return models.TransactionWithTags{}, &service.TagsNotFoundError{Names: []string{"Groceries", "travel"}}
		},
	}

	rr := serveRoutes(h, http.MethodPost, "/api/v1/transactions",
		`{"accountId":"`+uuid.NewString()+`","amount":"10","occurredOn":"2026-08-01","tags":["Groceries","travel"]}`,
		map[string]string{
			"Authorization":   "Bearer valid-token",
			"Idempotency-Key": "key-1",
		})

	require.Equal(t, http.StatusNotFound, rr.Code)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "TAG_NOT_FOUND", body.ErrorCode)
	assert.Contains(t, body.Message, "Groceries")
	assert.Contains(t, body.Message, "travel")
}

func TestRoutes_RevokeAPIKeyReturnsNoContent(t *testing.T) {
	userID := uuid.New()
	h := handlerWithUser(t, userID)

	rr := serveRoutes(h, http.MethodPost,
		"/api/v1/api-keys/"+uuid.NewString()+"/revoke", "",
		map[string]string{
			"Authorization":   "Bearer valid-token",
			"Idempotency-Key": "key-1",
		})

	assert.Equal(t, http.StatusNoContent, rr.Code)
}
