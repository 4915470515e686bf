package models

import (
	"time"

	"github.com/google/uuid"
)

// Expense is a standalone spending record not tied to an account.
type Expense struct {
	ID          uuid.UUID `json:"id"`
	Amount      string    `json:"amount"`
	OccurredOn  time.Time `json:"occurredOn"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
