package http

import (
	"encoding/json"
	"net/http"

	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/utils"
	"github.com/planifi/backend/models"
)

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	expenses, err := h.services.ExpenseService.ListExpenses(ctx)
	if err != nil {
		log.Err(err).Msg("listing expenses failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, expenses, http.StatusOK)
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, "Invalid JSON was passed")
		return
	}

	if err := h.validate.Validate(ctx, request); err != nil {
		log.Err(err).Msg("create expense request rejected by validation")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, err.Error())
		return
	}

	expense, err := h.services.ExpenseService.CreateExpense(ctx, request)
	if err != nil {
		log.Err(err).Msg("expense creation failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, expense, http.StatusCreated)
}
