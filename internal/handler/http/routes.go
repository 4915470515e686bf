package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router with the full middleware chain. Order matters:
// tracing and logging wrap everything, then identity resolution, then rate
// limiting keyed on the resolved identity. Health and metrics bypass the
// chain entirely so probes are never throttled.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Recoverer)

	router.Get("/health", h.health)
	router.Get("/version", h.getServerVersion)
	router.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	router.Group(func(r chi.Router) {
		r.Use(h.withMetrics)
		r.Use(h.withIdentity)
		r.Use(h.withRateLimit)

		// authentication endpoints: rate-limited by source IP, no identity
		// or idempotency key required
		r.Post("/api/v1/auth/register", h.register)
		r.Post("/api/v1/auth/login", h.login)

		// expenses are globally scoped and need no user context
		r.Get("/api/v1/expenses", h.listExpenses)
		r.Post("/api/v1/expenses", h.createExpense)

		r.Group(func(r chi.Router) {
			r.Use(h.requireUser)

			r.Route("/api/v1/accounts", func(r chi.Router) {
				r.Get("/", h.listAccounts)
				r.With(h.requireIdempotencyKey).Post("/", h.createAccount)
				r.With(h.requireIdempotencyKey).Post("/{accountID}/disable", h.disableAccount)
			})

			r.Route("/api/v1/transactions", func(r chi.Router) {
				r.Get("/", h.listTransactions)
				r.With(h.requireIdempotencyKey).Post("/", h.createTransaction)
			})

			r.Route("/api/v1/tags", func(r chi.Router) {
				r.Get("/", h.listTags)
				r.With(h.requireIdempotencyKey).Post("/", h.createTag)
			})

			r.Route("/api/v1/api-keys", func(r chi.Router) {
				r.With(h.requireIdempotencyKey).Post("/", h.createAPIKey)
				r.With(h.requireIdempotencyKey).Post("/{keyID}/rotate", h.rotateAPIKey)
				r.With(h.requireIdempotencyKey).Post("/{keyID}/revoke", h.revokeAPIKey)
			})
		})
	})

	return router
}
