package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a player account with a wallet balance
type User struct {
	ID           uuid.UUID `db:"id"`
	DisplayName  string    `db:"display_name"`
	Balance      int64     `db:"balance"`
	TotalMatches int       `db:"total_matches"`
	Wins         int       `db:"wins"`
	Losses       int       `db:"losses"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
