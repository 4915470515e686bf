package store

import "github.com/planifi/backend/internal/logger"

// Repositories aggregates every repository the service layer depends on.
type Repositories struct {
	UserRepository        UserRepository
	AccountRepository     AccountRepository
	TransactionRepository TransactionRepository
	TagRepository         TagRepository
	APIKeyRepository      APIKeyRepository
	ExpenseRepository     ExpenseRepository
	IdempotencyRepository IdempotencyRepository
	SettingRepository     SettingRepository
}

// NewRepositories wires every repository to the shared database connection.
func NewRepositories(db *DB, logger *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db, logger),
		AccountRepository:     NewAccountRepository(db, logger),
		TransactionRepository: NewTransactionRepository(db, logger),
		TagRepository:         NewTagRepository(db, logger),
		APIKeyRepository:      NewAPIKeyRepository(db, logger),
		ExpenseRepository:     NewExpenseRepository(db, logger),
		IdempotencyRepository: NewIdempotencyRepository(db, logger),
		SettingRepository:     NewSettingRepository(db, logger),
	}
}
