// Package http implements the HTTP transport layer of the planifi backend.
// It provides the middleware chain — tracing, logging, identity resolution,
// rate limiting, idempotency-key extraction — and the REST route handlers
// that forward validated requests to the service layer.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/internal/utils"
	"github.com/planifi/backend/models"
)

// withIdentity resolves the client identity of every request and stores it in
// the context under [utils.IdentityCtxKey].
//
// Resolution is a strict chain with no fallthrough between credential kinds:
//
//  1. An "Authorization" header claims a bearer JWT. A malformed header or an
//     invalid token rejects the request with 401 AUTH_INVALID_TOKEN; it never
//     degrades to an anonymous identity.
//  2. Otherwise, a non-empty API key header (configurable, default
//     "X-MCP-API-Key") claims a key identity: first matched against the
//     configured static keys in constant time, then looked up by hash among
//     issued keys. A presented but unknown key rejects with 401
//     AUTH_API_KEY_INVALID.
//  3. Otherwise the caller is anonymous, identified by source IP.
func (h *Handler) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		ctx := r.Context()

		identity, err := h.resolveIdentity(ctx, r)
		if err != nil {
			switch {
			case errors.Is(err, errInvalidAPIKey):
				h.metrics.AuthFailures.WithLabelValues("invalid_api_key").Inc()
				log.Err(err).Msg("unknown api key presented")
				writeErrorBody(w, r, http.StatusUnauthorized, codeAuthAPIKeyInvalid, "invalid API key")
			default:
				h.metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
				log.Err(err).Msg("bearer token rejected")
				writeErrorBody(w, r, http.StatusUnauthorized, codeAuthInvalidToken, "invalid or expired token")
			}
			return
		}

		ctx = context.WithValue(ctx, utils.IdentityCtxKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var errInvalidAPIKey = errors.New("unknown api key")

func (h *Handler) resolveIdentity(ctx context.Context, r *http.Request) (models.Identity, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		return h.resolveBearer(ctx, authHeader)
	}

	if rawKey := r.Header.Get(h.security.APIKeyHeader); rawKey != "" {
		return h.resolveAPIKey(ctx, rawKey)
	}

	return models.Identity{
		Kind: models.IdentityAnonymous,
		IP:   h.clientIP(r),
	}, nil
}

func (h *Handler) resolveBearer(ctx context.Context, authHeader string) (models.Identity, error) {
	tokenString, err := getTokenFromAuthHeader(authHeader)
	if err != nil {
		return models.Identity{}, err
	}

	token, err := h.services.AuthService.ParseToken(ctx, tokenString)
	if err != nil {
		return models.Identity{}, err
	}

	return models.Identity{
		Kind:   models.IdentityUser,
		UserID: token.UserID,
		Email:  token.Email,
	}, nil
}

func (h *Handler) resolveAPIKey(ctx context.Context, rawKey string) (models.Identity, error) {
	// Static keys are configured secrets for trusted service callers; they
	// carry no user binding. Compared in constant time.
	for _, staticKey := range h.security.StaticKeys {
		if utils.ConstantTimeEquals(rawKey, staticKey) {
			return models.Identity{
				Kind:      models.IdentityStaticKey,
				KeyDigest: utils.HashSHA256(rawKey),
			}, nil
		}
	}

	key, err := h.services.APIKeyService.FindActiveKey(ctx, rawKey)
	if err != nil {
		if errors.Is(err, store.ErrAPIKeyNotFound) {
			return models.Identity{}, errInvalidAPIKey
		}
		return models.Identity{}, err
	}

	return models.Identity{
		Kind:      models.IdentityAPIKey,
		UserID:    key.UserID,
		APIKeyID:  key.ID,
		KeyDigest: key.KeyHash,
	}, nil
}

// clientIP extracts the caller address. The first hop of X-Forwarded-For is
// honored only when explicitly configured: the header is client-controlled
// and would otherwise let callers pick their own rate-limit bucket.
func (h *Handler) clientIP(r *http.Request) string {
	if h.security.TrustForwardedFor {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
			if first != "" {
				return first
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// requireUser gates routes that act on behalf of a user: the resolved
// identity must carry a user binding (a bearer JWT or a user-bound API key).
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := utils.GetIdentityFromContext(r.Context())
		if !ok {
			writeErrorBody(w, r, http.StatusUnauthorized, codeAuthInvalidToken, "authentication required")
			return
		}
		if _, ok := identity.AuthenticatedUserID(); !ok {
			writeErrorBody(w, r, http.StatusUnauthorized, codeAuthInvalidToken, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" header value of the form "<scheme> <token>".
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
