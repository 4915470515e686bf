package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a single dated money movement on an account.
// Amount is carried as a decimal string to avoid float rounding; the service
// layer normalizes it (no trailing zeros) before fingerprinting.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"accountId"`
	Amount      string    `json:"amount"`
	OccurredOn  time.Time `json:"occurredOn"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TransactionWithTags pairs a transaction with its resolved tags,
// sorted by tag name.
type TransactionWithTags struct {
	Transaction Transaction `json:"transaction"`
	Tags        []Tag       `json:"tags"`
}

// TransactionPage is one page of a date-range listing.
type TransactionPage struct {
	Items      []TransactionWithTags `json:"items"`
	Page       int                   `json:"page"`
	Size       int                   `json:"size"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int                   `json:"totalPages"`
}
