package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountType enumerates the supported account categories.
type AccountType string

const (
	AccountTypeCash    AccountType = "CASH"
	AccountTypeDebit   AccountType = "DEBIT"
	AccountTypeCredit  AccountType = "CREDIT"
	AccountTypeSavings AccountType = "SAVINGS"
)

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeCash, AccountTypeDebit, AccountTypeCredit, AccountTypeSavings:
		return true
	}
	return false
}

// Account is a money container owned by a user. A disabled account keeps its
// history but no longer accepts transactions; DisabledAt is nil while active.
type Account struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"userId"`
	Name       string      `json:"name"`
	Type       AccountType `json:"type"`
	Currency   string      `json:"currency"`
	CreatedAt  time.Time   `json:"createdAt"`
	DisabledAt *time.Time  `json:"disabledAt,omitempty"`
}
