package models

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is an issued machine credential. Only the SHA-256 hash of the raw
// key is persisted; a key with a non-nil RevokedAt no longer authenticates.
type APIKey struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Name      string     `json:"name"`
	KeyHash   string     `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

// APIKeySecret is the one-time creation result carrying the raw key value.
// It is returned exactly once and never stored.
type APIKeySecret struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	APIKey    string    `json:"apiKey"`
	CreatedAt time.Time `json:"createdAt"`
}
