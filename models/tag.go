package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a user-scoped label attached to transactions. The pair
// (UserID, lower(Name)) is unique; the first-seen casing is the stored
// display form.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
