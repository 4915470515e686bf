package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/models"
)

// expenseService is the concrete implementation of ExpenseService.
type expenseService struct {
	expenseRepository store.ExpenseRepository
	logger            *logger.Logger
}

// NewExpenseService constructs an ExpenseService over the given repository.
func NewExpenseService(expenseRepository store.ExpenseRepository, logger *logger.Logger) ExpenseService {
	return &expenseService{
		expenseRepository: expenseRepository,
		logger:            logger,
	}
}

func (s *expenseService) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return s.expenseRepository.ListExpenses(ctx)
}

func (s *expenseService) CreateExpense(ctx context.Context, request models.CreateExpenseRequest) (models.Expense, error) {
	log := logger.FromContext(ctx)

	amount, ok := normalizeAmount(request.Amount)
	if !ok {
		log.Error().Str("amount", request.Amount).Msg("invalid amount provided")
		return models.Expense{}, ErrInvalidDataProvided
	}

	occurredOn, err := time.Parse(occurredOnLayout, request.OccurredOn)
	if err != nil {
		log.Error().Str("occurredOn", request.OccurredOn).Msg("invalid date provided")
		return models.Expense{}, ErrInvalidDataProvided
	}

	if request.Description == "" {
		return models.Expense{}, ErrInvalidDataProvided
	}

	expense, err := s.expenseRepository.CreateExpense(ctx, models.Expense{
		ID:          uuid.New(),
		Amount:      amount,
		OccurredOn:  occurredOn,
		Description: request.Description,
	})
	if err != nil {
		return models.Expense{}, fmt.Errorf("expense creation ended with error: %w", err)
	}

	return expense, nil
}
