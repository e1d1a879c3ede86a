package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus represents the lifecycle state of a match
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "PENDING"
	MatchStatusLive      MatchStatus = "LIVE"
	MatchStatusCompleted MatchStatus = "COMPLETED"
	MatchStatusVerified  MatchStatus = "VERIFIED"
	MatchStatusCancelled MatchStatus = "CANCELLED"
)

// allowed forward transitions; anything else is rejected
var matchTransitions = map[MatchStatus][]MatchStatus{
	MatchStatusPending:   {MatchStatusLive, MatchStatusCancelled},
	MatchStatusLive:      {MatchStatusCompleted},
	MatchStatusCompleted: {MatchStatusVerified},
}

// CanTransitionTo reports whether a move from s to next is a legal lifecycle step
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	for _, allowed := range matchTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusVerified || s == MatchStatusCancelled
}

// Match represents a wagered contest between a fixed-capacity set of participants
type Match struct {
	ID            uuid.UUID   `db:"id"`
	GameType      string      `db:"game_type"`
	EntryFee      int64       `db:"entry_fee"`
	PrizeAmount   int64       `db:"prize_amount"`
	Capacity      int         `db:"capacity"`
	RoomCode      string      `db:"room_code"`
	Status        MatchStatus `db:"status"`
	HostID        uuid.UUID   `db:"host_id"`
	WinnerID      *uuid.UUID  `db:"winner_id"`
	ReviewFlagged bool        `db:"review_flagged"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
	CompletedAt   *time.Time  `db:"completed_at"`
	VerifiedAt    *time.Time  `db:"verified_at"`
}

// IsHost checks if a user is the host of this match
func (m *Match) IsHost(userID uuid.UUID) bool {
	return m.HostID == userID
}

// MatchDetail bundles a match with its full participant roster
type MatchDetail struct {
	Match        *Match
	Participants []*Participant
}

// Participant returns the participant row for a user, or nil
func (d *MatchDetail) Participant(userID uuid.UUID) *Participant {
	for _, p := range d.Participants {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// IsParticipant checks if a user has joined this match
func (d *MatchDetail) IsParticipant(userID uuid.UUID) bool {
	return d.Participant(userID) != nil
}

// IsFull reports whether the participant count has reached capacity
func (d *MatchDetail) IsFull() bool {
	return len(d.Participants) >= d.Match.Capacity
}

// AllReady reports whether every current participant has flagged ready
func (d *MatchDetail) AllReady() bool {
	for _, p := range d.Participants {
		if !p.Ready {
			return false
		}
	}
	return len(d.Participants) > 0
}
