package http

import (
	"errors"
	"net/http"

	"github.com/planifi/backend/internal/idempotency"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/service"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/internal/utils"
	"github.com/planifi/backend/models"
)

// Stable machine-readable error codes carried in every error body.
const (
	codeValidationError       = "VALIDATION_ERROR"
	codeAuthInvalidToken      = "AUTH_INVALID_TOKEN"
	codeAuthAPIKeyInvalid     = "AUTH_API_KEY_INVALID"
	codeAuthInvalidCredential = "AUTH_INVALID_CREDENTIALS"
	codeAuthEmailInUse        = "AUTH_EMAIL_IN_USE"
	codeIdempotencyKeyReused  = "IDEMPOTENCY_KEY_REUSED"
	codeIdempotencyInProgress = "IDEMPOTENCY_IN_PROGRESS"
	codeTagNotFound           = "TAG_NOT_FOUND"
	codeAccountNotFound       = "ACCOUNT_NOT_FOUND"
	codeAPIKeyNotFound        = "API_KEY_NOT_FOUND"
	codeRateLimitExceeded     = "RATE_LIMIT_EXCEEDED"
	codeInternalError         = "INTERNAL_ERROR"
)

type errorMapping struct {
	status int
	code   string
}

var errorMappings = map[error]errorMapping{
	service.ErrInvalidDataProvided: {http.StatusBadRequest, codeValidationError},
	service.ErrAccountDisabled:     {http.StatusBadRequest, codeValidationError},
	service.ErrEmailInUse:          {http.StatusConflict, codeAuthEmailInUse},
	service.ErrInvalidCredentials:  {http.StatusUnauthorized, codeAuthInvalidCredential},

	idempotency.ErrKeyReuse:      {http.StatusConflict, codeIdempotencyKeyReused},
	idempotency.ErrReplayPending: {http.StatusConflict, codeIdempotencyInProgress},
	ErrMissingIdempotencyKey:     {http.StatusBadRequest, codeValidationError},

	store.ErrAccountNotFound: {http.StatusNotFound, codeAccountNotFound},
	store.ErrAPIKeyNotFound:  {http.StatusNotFound, codeAPIKeyNotFound},
	store.ErrTagNotFound:     {http.StatusNotFound, codeTagNotFound},
}

func mappingFromError(err error) errorMapping {
	var tagsErr *service.TagsNotFoundError
	if errors.As(err, &tagsErr) {
		return errorMapping{http.StatusNotFound, codeTagNotFound}
	}

	for target, mapping := range errorMappings {
		if errors.Is(err, target) {
			return mapping
		}
	}
	return errorMapping{http.StatusInternalServerError, codeInternalError}
}

// writeError maps err onto a status code plus a stable error code and writes
// the uniform error body. Unmapped errors are reported as internal without
// leaking their message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	mapping := mappingFromError(err)

	message := err.Error()
	if mapping.code == codeInternalError {
		logger.FromRequest(r).Err(err).Msg("unexpected error while handling request")
		message = http.StatusText(http.StatusInternalServerError)
	}

	writeErrorBody(w, r, mapping.status, mapping.code, message)
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	utils.WriteJSON(w, models.ErrorResponse{
		ErrorCode: code,
		Message:   message,
		TraceID:   utils.GetTraceIDFromContext(r.Context()),
	}, status)
}
