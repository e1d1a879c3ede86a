package models

import (
	"errors"
	"fmt"
)

// Stable error kinds. Callers match these with errors.Is so the
// presentation layer never has to parse message text.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotParticipant    = errors.New("not a participant of this match")
	ErrAlreadyVerified   = errors.New("match already verified")
	ErrAlreadyJoined     = errors.New("already joined this match")
	ErrAlreadySubmitted  = errors.New("result already submitted")
	ErrCapacityExceeded  = errors.New("match is full")
	ErrInvalidRoomCode   = errors.New("invalid room code")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// InvalidTransitionError reports a rejected lifecycle move, naming both the
// current and the requested state.
type InvalidTransitionError struct {
	Current   MatchStatus
	Requested MatchStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition match from %s to %s", e.Current, e.Requested)
}

// Is makes the error match ErrInvalidTransition under errors.Is
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// NewInvalidTransition builds an InvalidTransitionError for the given move
func NewInvalidTransition(current, requested MatchStatus) error {
	return &InvalidTransitionError{Current: current, Requested: requested}
}
