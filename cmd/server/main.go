package main

import (
	"context"
	"fmt"

	"github.com/planifi/backend/internal/bootstrap"
	"github.com/planifi/backend/internal/config"
	handler "github.com/planifi/backend/internal/handler/http"
	"github.com/planifi/backend/internal/idempotency"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/metrics"
	"github.com/planifi/backend/internal/rate"
	"github.com/planifi/backend/internal/server"
	"github.com/planifi/backend/internal/service"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/internal/workers"
	"github.com/planifi/backend/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("planifi-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	if err := migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	repositories := store.NewRepositories(db, log)

	if cfg.Bootstrap.FilePath != "" {
		document, err := bootstrap.Load(cfg.Bootstrap.FilePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Bootstrap.FilePath).Msg("error loading bootstrap file")
		}
		if err := bootstrap.NewBootstrapper(repositories, log).Apply(ctx, document); err != nil {
			log.Fatal().Err(err).Msg("error applying bootstrap file")
		}
	}

	m := metrics.New()

	executor := idempotency.NewExecutor(repositories.IdempotencyRepository, cfg.Idempotency, log)
	executor.SetReplayCounter(m.IdempotentReplays)

	services := service.NewServices(repositories, executor, cfg, log)
	limiter := rate.NewLimiter(cfg.RateLimit, log)
	h := handler.NewHandler(services, limiter, m, cfg, log)

	workers.NewWorkers(
		workers.NewPurgeWorker(ctx, repositories.IdempotencyRepository, cfg.Idempotency, log),
	).Run()

	srv, err := server.NewServer(h.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
