package http

import (
	"github.com/planifi/backend/internal/config"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/metrics"
	"github.com/planifi/backend/internal/rate"
	"github.com/planifi/backend/internal/service"
	"github.com/planifi/backend/internal/validators"
)

type Handler struct {
	services *service.Services
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
	validate validators.Validator

	security          config.Security
	rateLimitDisabled bool
	appVersion        string

	logger *logger.Logger
}

func NewHandler(services *service.Services, limiter *rate.Limiter, m *metrics.Metrics, cfg *config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:          services,
		limiter:           limiter,
		metrics:           m,
		validate:          validators.NewRequestValidator(),
		security:          cfg.Security,
		rateLimitDisabled: cfg.RateLimit.Disabled,
		appVersion:        cfg.App.Version,
		logger:            logger,
	}
}
