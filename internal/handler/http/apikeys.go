package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/utils"
	"github.com/planifi/backend/models"
)

func (h *Handler) createAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := authenticatedUser(r)
	if !ok {
		writeErrorBody(w, r, http.StatusUnauthorized, codeAuthInvalidToken, "authentication required")
		return
	}
	idempotencyKey, ok := utils.GetIdempotencyKeyFromContext(ctx)
	if !ok {
		h.writeError(w, r, ErrMissingIdempotencyKey)
		return
	}

	var request models.CreateAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, "Invalid JSON was passed")
		return
	}

	if err := h.validate.Validate(ctx, request); err != nil {
		log.Err(err).Msg("create api key request rejected by validation")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, err.Error())
		return
	}

	// the response is the only place the raw key value ever appears
	secret, err := h.services.APIKeyService.CreateAPIKey(ctx, userID, request, idempotencyKey)
	if err != nil {
		log.Err(err).Msg("api key creation failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, secret, http.StatusCreated)
}

func (h *Handler) rotateAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := authenticatedUser(r)
	if !ok {
		writeErrorBody(w, r, http.StatusUnauthorized, codeAuthInvalidToken, "authentication required")
		return
	}
	idempotencyKey, ok := utils.GetIdempotencyKeyFromContext(ctx)
	if !ok {
		h.writeError(w, r, ErrMissingIdempotencyKey)
		return
	}

	keyID, err := uuid.Parse(chi.URLParam(r, "keyID"))
	if err != nil {
		log.Err(err).Msg("invalid api key id in path")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, "invalid api key id")
		return
	}

	secret, err := h.services.APIKeyService.RotateAPIKey(ctx, userID, keyID, idempotencyKey)
	if err != nil {
		log.Err(err).Msg("api key rotation failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, secret, http.StatusOK)
}

func (h *Handler) revokeAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := authenticatedUser(r)
	if !ok {
		writeErrorBody(w, r, http.StatusUnauthorized, codeAuthInvalidToken, "authentication required")
		return
	}
	idempotencyKey, ok := utils.GetIdempotencyKeyFromContext(ctx)
	if !ok {
		h.writeError(w, r, ErrMissingIdempotencyKey)
		return
	}

	keyID, err := uuid.Parse(chi.URLParam(r, "keyID"))
	if err != nil {
		log.Err(err).Msg("invalid api key id in path")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, "invalid api key id")
		return
	}

	if err := h.services.APIKeyService.RevokeAPIKey(ctx, userID, keyID, idempotencyKey); err != nil {
		log.Err(err).Msg("api key revocation failed")
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
