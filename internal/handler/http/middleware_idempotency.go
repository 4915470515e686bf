package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/utils"
)

const idempotencyKeyHeader = "Idempotency-Key"

// requireIdempotencyKey enforces that every mutating request carries a
// non-blank Idempotency-Key header and stores the value in the context under
// [utils.IdempotencyKeyCtxKey] for the handlers.
func (h *Handler) requireIdempotencyKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
		if key == "" {
			logger.FromRequest(r).Err(ErrMissingIdempotencyKey).Send()
			h.writeError(w, r, ErrMissingIdempotencyKey)
			return
		}

		ctx := context.WithValue(r.Context(), utils.IdempotencyKeyCtxKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
