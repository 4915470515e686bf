package workers

import (
	"context"
	"time"

	"github.com/planifi/backend/internal/config"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
)

// PurgeWorker periodically removes idempotency records older than the
// configured retention. Keys purged this way may be reused by clients; the
// retention must therefore comfortably exceed any realistic client retry
// window.
type PurgeWorker struct {
	repository store.IdempotencyRepository
	retention  time.Duration
	interval   time.Duration

	ctx    context.Context
	logger *logger.Logger
}

// NewPurgeWorker constructs a [PurgeWorker]. The worker stops when ctx is
// canceled.
func NewPurgeWorker(ctx context.Context, repository store.IdempotencyRepository, cfg config.Idempotency, log *logger.Logger) *PurgeWorker {
	return &PurgeWorker{
		repository: repository,
		retention:  cfg.Retention,
		interval:   cfg.PurgeInterval,
		ctx:        ctx,
		logger:     log,
	}
}

// Run starts the purge loop in its own goroutine.
func (w *PurgeWorker) Run() {
	go w.loop()
}

func (w *PurgeWorker) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info().Msg("idempotency purge worker stopped")
			return
		case <-ticker.C:
			w.purge()
		}
	}
}

func (w *PurgeWorker) purge() {
	cutoff := time.Now().Add(-w.retention)

	purged, err := w.repository.PurgeOlderThan(w.ctx, cutoff)
	if err != nil {
		w.logger.Err(err).Msg("error purging idempotency records")
		return
	}

	if purged > 0 {
		w.logger.Info().Int64("purged", purged).Msg("purged expired idempotency records")
	}
}
