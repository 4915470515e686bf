package models

import "time"

// Idempotency record statuses. A record is reserved as IN_PROGRESS before the
// guarded action runs and flipped to COMPLETED once its response snapshot is
// persisted; it is never mutated afterwards.
const (
	IdempotencyInProgress = "IN_PROGRESS"
	IdempotencyCompleted  = "COMPLETED"
)

// IdempotencyRecord is the stored outcome of one idempotent operation.
// Key is the client-supplied Idempotency-Key and maps to exactly one
// Fingerprint for its lifetime. ResponseBody is the serialized response,
// nil for void operations.
type IdempotencyRecord struct {
	Key          string    `json:"key"`
	Fingerprint  string    `json:"fingerprint"`
	ResponseBody []byte    `json:"responseBody,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}
