// Package idempotency provides at-most-once execution of mutating operations
// keyed by a client-supplied idempotency key.
//
// Execution is reserve-then-complete: the key is claimed in the store with an
// IN_PROGRESS record before the guarded action runs, so of any number of
// concurrent requests carrying the same key exactly one executes. The others
// either replay the completed response snapshot or wait briefly for the
// winner and fail closed. A key is permanently bound to the fingerprint of
// its first request; reuse with a different fingerprint is rejected.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/planifi/backend/internal/config"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/models"
)

var (
	// ErrKeyReuse is returned when a key arrives with a fingerprint different
	// from the one it was first bound to.
	ErrKeyReuse = errors.New("idempotency key reused with a different request")

	// ErrReplayPending is returned when a record is still IN_PROGRESS after
	// the replay wait expires. The caller must not run the action: the winner
	// may still complete.
	ErrReplayPending = errors.New("original request still in progress")
)

// Executor coordinates idempotent execution against the persistent record
// store shared by all server instances.
type Executor struct {
	store        store.IdempotencyRepository
	replayWait   time.Duration
	pollInterval time.Duration
	replays      interface{ Inc() }
	logger       *logger.Logger
}

// NewExecutor constructs an [Executor] with the given record store and
// timing configuration.
func NewExecutor(repository store.IdempotencyRepository, cfg config.Idempotency, log *logger.Logger) *Executor {
	log.Debug().Msg("creating idempotency executor")
	return &Executor{
		store:        repository,
		replayWait:   cfg.ReplayWait,
		pollInterval: cfg.PollInterval,
		logger:       log,
	}
}

// SetReplayCounter wires a counter (e.g. a Prometheus counter) incremented
// every time a stored snapshot is served instead of running the action.
func (e *Executor) SetReplayCounter(counter interface{ Inc() }) {
	e.replays = counter
}

func (e *Executor) countReplay() {
	if e.replays != nil {
		e.replays.Inc()
	}
}

// Execute runs action at most once for the given key and returns its result.
// The second return value reports whether the result was replayed from a
// stored snapshot instead of freshly produced.
//
// Paths:
//   - Key unseen → reserve, run action, persist its serialized result,
//     return it. If the action fails, the reservation is released so the
//     client may retry with the same key.
//   - Key completed with the same fingerprint → return the stored snapshot;
//     the action does not run.
//   - Key in progress → poll until the winner completes or the replay wait
//     expires; on expiry return [ErrReplayPending] without running the action.
//   - Fingerprint mismatch → [ErrKeyReuse].
func Execute[T any](ctx context.Context, e *Executor, key, fingerprint string, action func(ctx context.Context) (T, error)) (T, bool, error) {
	var zero T
	log := logger.FromContext(ctx)

	err := e.store.Reserve(ctx, key, fingerprint)
	if err == nil {
		result, err := action(ctx)
		if err != nil {
			// release so the client can retry with the same key
			if releaseErr := e.store.DeleteReservation(ctx, key); releaseErr != nil {
				log.Err(releaseErr).Str("func", "idempotency.Execute").Str("key", key).Msg("error releasing reservation")
			}
			return zero, false, err
		}

		body, err := json.Marshal(result)
		if err != nil {
			return zero, false, fmt.Errorf("error serializing idempotent response: %w", err)
		}
		if err := e.store.Complete(ctx, key, body); err != nil {
			log.Err(err).Str("func", "idempotency.Execute").Str("key", key).Msg("error completing record")
			return zero, false, err
		}

		return result, false, nil
	}
	if !errors.Is(err, store.ErrIdempotencyKeyTaken) {
		return zero, false, err
	}

	record, err := e.awaitCompleted(ctx, key, fingerprint)
	if err != nil {
		return zero, false, err
	}

	var replayed T
	if err := json.Unmarshal(record.ResponseBody, &replayed); err != nil {
		return zero, false, fmt.Errorf("error deserializing stored response: %w", err)
	}

	e.countReplay()
	log.Debug().Str("func", "idempotency.Execute").Str("key", key).Msg("replaying stored response")
	return replayed, true, nil
}

// Do is the void-operation counterpart of [Execute]: the action produces no
// result and the stored snapshot is empty. The return value reports whether
// the action was skipped because the key had already completed.
func (e *Executor) Do(ctx context.Context, key, fingerprint string, action func(ctx context.Context) error) (bool, error) {
	log := logger.FromContext(ctx)

	err := e.store.Reserve(ctx, key, fingerprint)
	if err == nil {
		if err := action(ctx); err != nil {
			if releaseErr := e.store.DeleteReservation(ctx, key); releaseErr != nil {
				log.Err(releaseErr).Str("func", "*Executor.Do").Str("key", key).Msg("error releasing reservation")
			}
			return false, err
		}

		if err := e.store.Complete(ctx, key, nil); err != nil {
			log.Err(err).Str("func", "*Executor.Do").Str("key", key).Msg("error completing record")
			return false, err
		}

		return false, nil
	}
	if !errors.Is(err, store.ErrIdempotencyKeyTaken) {
		return false, err
	}

	if _, err := e.awaitCompleted(ctx, key, fingerprint); err != nil {
		return false, err
	}

	e.countReplay()
	return true, nil
}

// awaitCompleted resolves a lost reservation race: it reads the existing
// record, verifies the fingerprint binding, and waits for an IN_PROGRESS
// record to flip to COMPLETED within the replay wait.
func (e *Executor) awaitCompleted(ctx context.Context, key, fingerprint string) (models.IdempotencyRecord, error) {
	deadline := time.Now().Add(e.replayWait)

	for {
		record, err := e.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, store.ErrIdempotencyRecordNotFound) {
				// The winner failed and released the key between our reserve
				// attempt and this read. Fail closed rather than re-racing:
				// the client retries with the same key.
				return models.IdempotencyRecord{}, ErrReplayPending
			}
			return models.IdempotencyRecord{}, err
		}

		if record.Fingerprint != fingerprint {
			return models.IdempotencyRecord{}, ErrKeyReuse
		}
		if record.Status == models.IdempotencyCompleted {
			return record, nil
		}

		if time.Now().After(deadline) {
			return models.IdempotencyRecord{}, ErrReplayPending
		}

		select {
		case <-ctx.Done():
			return models.IdempotencyRecord{}, ctx.Err()
		case <-time.After(e.pollInterval):
		}
	}
}

// Fingerprint derives the canonical request digest binding an idempotency
// key to the operation and its normalized fields: SHA-256 over the operation
// name followed by each field prefixed with ':', hex encoded.
func Fingerprint(operation string, fields ...string) string {
	h := sha256.New()
	h.Write([]byte(operation))
	for _, field := range fields {
		h.Write([]byte(":"))
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}
