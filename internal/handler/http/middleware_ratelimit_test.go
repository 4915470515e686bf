package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/config"
	"github.com/planifi/backend/internal/utils"
	"github.com/planifi/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRateLimit(h *Handler, identity models.Identity) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	middleware := h.withRateLimit(next)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	req = injectNopLogger(req)
	req = req.WithContext(context.WithValue(req.Context(), utils.IdentityCtxKey, identity))

	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)
	return rr
}

func strictLimitConfig(rpm, burst int) *config.StructuredConfig {
	cfg := testConfig()
	cfg.RateLimit.RequestsPerMinute = rpm
	cfg.RateLimit.Burst = burst
	return cfg
}

func TestWithRateLimit_SetsHeadersOnSuccess(t *testing.T) {
	h := newTestHandler(allMockServices(), strictLimitConfig(10, 5))
	identity := models.Identity{Kind: models.IdentityUser, UserID: uuid.New()}

	rr := executeRateLimit(h, identity)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "15", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "14", rr.Header().Get("X-RateLimit-Remaining"))
}

func TestWithRateLimit_RejectsWhenExhausted(t *testing.T) {
	h := newTestHandler(allMockServices(), strictLimitConfig(1, 0))
	identity := models.Identity{Kind: models.IdentityUser, UserID: uuid.New()}

	first := executeRateLimit(h, identity)
	require.Equal(t, http.StatusOK, first.Code)

	second := executeRateLimit(h, identity)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "RATE_LIMIT_EXCEEDED")

	// Retry-After is whole seconds, at least one
	retryAfter := second.Header().Get("Retry-After")
	require.NotEmpty(t, retryAfter)
	seconds, err := time.ParseDuration(retryAfter + "s")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seconds, time.Second)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
}

func TestWithRateLimit_IdentitiesAreIsolated(t *testing.T) {
	h := newTestHandler(allMockServices(), strictLimitConfig(1, 0))

	alice := models.Identity{Kind: models.IdentityUser, UserID: uuid.New()}
	bob := models.Identity{Kind: models.IdentityUser, UserID: uuid.New()}

	require.Equal(t, http.StatusOK, executeRateLimit(h, alice).Code)
	require.Equal(t, http.StatusTooManyRequests, executeRateLimit(h, alice).Code)

	// a different user has an untouched bucket
	assert.Equal(t, http.StatusOK, executeRateLimit(h, bob).Code)
}

func TestWithRateLimit_DisabledBypasses(t *testing.T) {
	cfg := strictLimitConfig(1, 0)
	cfg.RateLimit.Disabled = true
	h := newTestHandler(allMockServices(), cfg)
	identity := models.Identity{Kind: models.IdentityUser, UserID: uuid.New()}

	for i := 0; i < 10; i++ {
		rr := executeRateLimit(h, identity)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
	}
}

func TestWithRateLimit_MissingIdentityFallsBackToIP(t *testing.T) {
	h := newTestHandler(allMockServices(), strictLimitConfig(1, 0))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	middleware := h.withRateLimit(next)

	run := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		req = injectNopLogger(req)
		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)
		return rr
	}

	require.Equal(t, http.StatusOK, run().Code)
	assert.Equal(t, http.StatusTooManyRequests, run().Code)
}

func TestKeyKind(t *testing.T) {
	assert.Equal(t, "user", keyKind("user:123"))
	assert.Equal(t, "api-key", keyKind("api-key:abc"))
	assert.Equal(t, "ip", keyKind("ip:1.2.3.4"))
	assert.Equal(t, "unknown", keyKind("no-colon"))
}
