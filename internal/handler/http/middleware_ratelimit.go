package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/utils"
	"github.com/planifi/backend/models"
)

// withRateLimit admits or rejects the request against the per-client token
// bucket keyed by the resolved identity. Admitted requests carry
// X-RateLimit-Limit and X-RateLimit-Remaining; rejected ones get 429 with a
// Retry-After hint in whole seconds.
func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.rateLimitDisabled {
			next.ServeHTTP(w, r)
			return
		}

		identity, ok := utils.GetIdentityFromContext(r.Context())
		if !ok {
			// Identity resolution runs first; a missing identity means the
			// route is wired outside the chain. Limit by transport address.
			identity = models.Identity{Kind: models.IdentityAnonymous, IP: h.clientIP(r)}
		}

		key := identity.RateLimitKey()
		decision := h.limiter.Admit(key)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			h.metrics.RateLimitRejections.WithLabelValues(keyKind(key)).Inc()

			retryAfter := int(decision.RetryAfter.Seconds())
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

			logger.FromRequest(r).Warn().
				Str("key", key).
				Int("retry_after", retryAfter).
				Msg("request rejected by rate limiter")

			writeErrorBody(w, r, http.StatusTooManyRequests, codeRateLimitExceeded, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// keyKind extracts the bucket-key prefix ("user", "api-key", "ip") used as a
// metrics label.
func keyKind(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "unknown"
}
