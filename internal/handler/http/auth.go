package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/utils"
	"github.com/planifi/backend/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, "Invalid JSON was passed")
		return
	}

	if err := h.validate.Validate(ctx, request); err != nil {
		log.Err(err).Msg("register request rejected by validation")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, err.Error())
		return
	}

	response, err := h.services.AuthService.Register(ctx, request)
	if err != nil {
		log.Err(err).Msg("user registration failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, response, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, "Invalid JSON was passed")
		return
	}

	if err := h.validate.Validate(ctx, request); err != nil {
		log.Err(err).Msg("login request rejected by validation")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, err.Error())
		return
	}

	response, err := h.services.AuthService.Login(ctx, request)
	if err != nil {
		log.Err(err).Msg("user login failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

// authenticatedUser returns the user id bound to the request identity.
// Routes behind requireUser always have one; the ok flag guards direct
// handler invocations in tests.
func authenticatedUser(r *http.Request) (uuid.UUID, bool) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	return identity.AuthenticatedUserID()
}
