package http

import (
	"encoding/json"
	"net/http"

	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/utils"
	"github.com/planifi/backend/models"
)

func (h *Handler) listTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := authenticatedUser(r)
	if !ok {
		writeErrorBody(w, r, http.StatusUnauthorized, codeAuthInvalidToken, "authentication required")
		return
	}

	tags, err := h.services.TagService.ListTags(ctx, userID)
	if err != nil {
		log.Err(err).Msg("listing tags failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, tags, http.StatusOK)
}

func (h *Handler) createTag(w http.ResponseWriter, r *http.Request) {
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

	var request models.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, "Invalid JSON was passed")
		return
	}

	if err := h.validate.Validate(ctx, request); err != nil {
		log.Err(err).Msg("create tag request rejected by validation")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, err.Error())
		return
	}

	tag, err := h.services.TagService.CreateTag(ctx, userID, request, idempotencyKey)
	if err != nil {
		log.Err(err).Msg("tag creation failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, tag, http.StatusCreated)
}
