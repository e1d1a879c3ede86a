package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant represents a user who has paid into a specific match
type Participant struct {
	MatchID       uuid.UUID `db:"match_id"`
	UserID        uuid.UUID `db:"user_id"`
	Ready         bool      `db:"ready"`
	ScreenshotURL *string   `db:"screenshot_url"`
	CreatedAt     time.Time `db:"created_at"`
}

// HasSubmitted reports whether this participant has attached a result screenshot
func (p *Participant) HasSubmitted() bool {
	return p.ScreenshotURL != nil && *p.ScreenshotURL != ""
}
