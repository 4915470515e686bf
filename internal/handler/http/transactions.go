package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/internal/utils"
	"github.com/planifi/backend/models"
)

const dateLayout = "2006-01-02"

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
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

	var request models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, "Invalid JSON was passed")
		return
	}

	if err := h.validate.Validate(ctx, request); err != nil {
		log.Err(err).Msg("create transaction request rejected by validation")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, err.Error())
		return
	}

	transaction, err := h.services.TransactionService.CreateTransaction(ctx, userID, request, idempotencyKey)
	if err != nil {
		log.Err(err).Msg("transaction creation failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, transaction, http.StatusCreated)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := authenticatedUser(r)
	if !ok {
		writeErrorBody(w, r, http.StatusUnauthorized, codeAuthInvalidToken, "authentication required")
		return
	}

	filter, err := transactionFilterFromQuery(r)
	if err != nil {
		log.Err(err).Msg("invalid transaction filter")
		writeErrorBody(w, r, http.StatusBadRequest, codeValidationError, err.Error())
		return
	}

	page, err := h.services.TransactionService.ListTransactions(ctx, userID, filter)
	if err != nil {
		log.Err(err).Msg("listing transactions failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, page, http.StatusOK)
}

func transactionFilterFromQuery(r *http.Request) (store.TransactionFilter, error) {
	query := r.URL.Query()

	accountID, err := uuid.Parse(query.Get("accountId"))
	if err != nil {
		return store.TransactionFilter{}, ErrInvalidAccountIDParam
	}

	filter := store.TransactionFilter{AccountID: accountID}

	if from := query.Get("from"); from != "" {
		filter.From, err = time.Parse(dateLayout, from)
		if err != nil {
			return store.TransactionFilter{}, ErrInvalidDateParam
		}
	}
	if to := query.Get("to"); to != "" {
		filter.To, err = time.Parse(dateLayout, to)
		if err != nil {
			return store.TransactionFilter{}, ErrInvalidDateParam
		}
	}
	if page := query.Get("page"); page != "" {
		filter.Page, err = strconv.Atoi(page)
		if err != nil || filter.Page < 1 {
			return store.TransactionFilter{}, ErrInvalidPageParam
		}
	}
	if size := query.Get("size"); size != "" {
		filter.Size, err = strconv.Atoi(size)
		if err != nil || filter.Size < 1 {
			return store.TransactionFilter{}, ErrInvalidPageParam
		}
	}

	return filter, nil
}
