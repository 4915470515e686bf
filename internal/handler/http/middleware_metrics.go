package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// withMetrics records request count and latency. The chi route pattern is
// read after the downstream handler returns, so parameterized paths collapse
// into one label value instead of one series per id.
func (h *Handler) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lw, ok := w.(*responseWriter)
		if !ok {
			lw = &responseWriter{ResponseWriter: w}
		}

		next.ServeHTTP(lw, r)

		path := r.URL.Path
		if routeContext := chi.RouteContext(r.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := lw.status
		if status == 0 {
			status = http.StatusOK
		}

		h.metrics.ObserveRequest(r.Method, path, status, time.Since(start))
	})
}
