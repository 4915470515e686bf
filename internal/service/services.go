package service

import (
	"github.com/planifi/backend/internal/config"
	"github.com/planifi/backend/internal/idempotency"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
)

type Services struct {
	AuthService        AuthService
	AccountService     AccountService
	TransactionService TransactionService
	TagService         TagService
	APIKeyService      APIKeyService
	ExpenseService     ExpenseService
}

func NewServices(repositories *store.Repositories, executor *idempotency.Executor, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	tagService := NewTagService(repositories.TagRepository, executor, logger)

	return &Services{
		AuthService:        NewAuthService(repositories.UserRepository, cfg.App, logger),
		AccountService:     NewAccountService(repositories.AccountRepository, executor, logger),
		TransactionService: NewTransactionService(repositories.TransactionRepository, repositories.AccountRepository, tagService, executor, logger),
		TagService:         tagService,
		APIKeyService:      NewAPIKeyService(repositories.APIKeyRepository, cfg.Security, executor, logger),
		ExpenseService:     NewExpenseService(repositories.ExpenseRepository, logger),
	}
}
