package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account holder. Email is stored normalized
// (trimmed, lower-cased) and is unique across the system.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	CreatedAt    time.Time `json:"createdAt"`
}
