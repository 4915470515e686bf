package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/models"
)

// expenseRepository is the PostgreSQL-backed implementation of
// [ExpenseRepository] over the "expenses" table.
type expenseRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewExpenseRepository constructs an [ExpenseRepository] backed by the
// provided database connection and logger.
func NewExpenseRepository(db *DB, logger *logger.Logger) ExpenseRepository {
	logger.Debug().Msg("creating expense repository")
	return &expenseRepository{
		db:     db,
		logger: logger,
	}
}

func (r *expenseRepository) CreateExpense(ctx context.Context, expense models.Expense) (models.Expense, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createExpense, expense.ID, expense.Amount, expense.OccurredOn, expense.Description)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*expenseRepository.CreateExpense").Msg("error: row is nil")
		return models.Expense{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := row.Scan(&expense.ID, &expense.Amount, &expense.OccurredOn, &expense.Description, &expense.CreatedAt); err != nil {
		log.Err(err).Str("func", "*expenseRepository.CreateExpense").Msg("error: scanning error")
		return models.Expense{}, err
	}

	return expense, nil
}

func (r *expenseRepository) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listExpenses)
	if err != nil {
		log.Err(err).Str("func", "*expenseRepository.ListExpenses").Msg("error executing query")
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		var expense models.Expense
		if err := rows.Scan(&expense.ID, &expense.Amount, &expense.OccurredOn, &expense.Description, &expense.CreatedAt); err != nil {
			log.Err(err).Str("func", "*expenseRepository.ListExpenses").Msg("error scanning rows")
			return nil, errors.Join(ErrScanningRows, err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRows, err)
	}

	return expenses, nil
}
