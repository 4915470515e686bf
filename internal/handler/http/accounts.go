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

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := authenticatedUser(r)
	if !ok {
		writeErrorBody(w, r, http.StatusUnauthorized, codeAuthInvalidToken, "authentication required")
		return
	}

	accounts, err := h.services.AccountService.ListAccounts(ctx, userID)
	if err != nil {
		log.Err(err).Msg("listing accounts failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, accounts, http.StatusOK)
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
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

	var request models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, "Invalid JSON was passed")
		return
	}

	if err := h.validate.Validate(ctx, request); err != nil {
		log.Err(err).Msg("create account request rejected by validation")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, err.Error())
		return
	}

	account, err := h.services.AccountService.CreateAccount(ctx, userID, request, idempotencyKey)
	if err != nil {
		log.Err(err).Msg("account creation failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusCreated)
}

func (h *Handler) disableAccount(w http.ResponseWriter, r *http.Request) {
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

	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		log.Err(err).Msg("invalid account id in path")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, "invalid account id")
		return
	}

	if err := h.services.AccountService.DisableAccount(ctx, userID, accountID, idempotencyKey); err != nil {
		log.Err(err).Msg("disabling account failed")
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
