package service

import (
	"context"
	"time"

	"arenasrv/events"
	"arenasrv/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by ID, returning nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// Create creates a new user with the initial balance
	Create(ctx context.Context, id uuid.UUID, displayName string, initialBalance int64) (*models.User, error)

	// AddBalance adds to a user's balance atomically
	AddBalance(ctx context.Context, id uuid.UUID, amount int64) error

	// DeductBalance deducts from a user's balance atomically, failing with
	// models.ErrInsufficientFunds when the balance would go negative
	DeductBalance(ctx context.Context, id uuid.UUID, amount int64) error

	// RecordMatchOutcome bumps a user's match/win/loss counters
	RecordMatchOutcome(ctx context.Context, id uuid.UUID, won bool) error

	// GetAll returns all users
	GetAll(ctx context.Context) ([]*models.User, error)
}

// MatchRepository defines the interface for match and participant data access
type MatchRepository interface {
	// Core match operations
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Participant operations
	AddParticipant(ctx context.Context, participant *models.Participant) error
	SaveParticipant(ctx context.Context, participant *models.Participant) error
	GetParticipants(ctx context.Context, matchID uuid.UUID) ([]*models.Participant, error)

	// Listings
	ListOpen(ctx context.Context, limit int) ([]*models.Match, error)
	ListByStatus(ctx context.Context, status models.MatchStatus, limit int) ([]*models.Match, error)
	ListReviewFlagged(ctx context.Context, limit int) ([]*models.Match, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Match, error)
	ListStaleCompleted(ctx context.Context, cutoff time.Time) ([]*models.Match, error)
}

// TransactionRepository defines the interface for the append-only balance ledger
type TransactionRepository interface {
	// Record appends a new ledger entry
	Record(ctx context.Context, txn *models.Transaction) error

	// GetByUser returns ledger entries for a user, newest first
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error)

	// HasPrizeCredit reports whether a prize was already paid for a match
	HasPrizeCredit(ctx context.Context, matchID uuid.UUID) (bool, error)
}

// MatchService owns the match lifecycle up to the LIVE transition
type MatchService interface {
	// CreateMatch opens a new room, reserving the host's entry fee
	CreateMatch(ctx context.Context, hostID uuid.UUID, gameType string, entryFee int64, capacity int) (*models.MatchDetail, error)

	// JoinMatch adds a user to a PENDING match after checking the room code
	// and reserving their entry fee
	JoinMatch(ctx context.Context, matchID, userID uuid.UUID, roomCode string) (*models.MatchDetail, error)

	// SetReady flags a participant ready; idempotent. Flips the match LIVE
	// once the roster is full and everyone is ready.
	SetReady(ctx context.Context, matchID, userID uuid.UUID) (*models.MatchDetail, error)

	// CancelMatch cancels a PENDING match and refunds collected fees.
	// Non-admin callers must be the host and alone in the room.
	CancelMatch(ctx context.Context, matchID, callerID uuid.UUID, isAdmin bool) (*models.Match, error)

	// DeleteMatch removes a match entirely, refunding entry fees first
	// unless the match already reached a terminal state. Admin only.
	DeleteMatch(ctx context.Context, matchID uuid.UUID) error

	// GetMatch returns a match with its participants
	GetMatch(ctx context.Context, matchID uuid.UUID) (*models.MatchDetail, error)

	// ListOpenMatches returns joinable matches
	ListOpenMatches(ctx context.Context, limit int) ([]*models.Match, error)

	// ListMatchesByStatus returns matches in a given status
	ListMatchesByStatus(ctx context.Context, status models.MatchStatus, limit int) ([]*models.Match, error)

	// ListReviewQueue returns COMPLETED matches flagged for manual review
	ListReviewQueue(ctx context.Context, limit int) ([]*models.Match, error)

	// ListUserMatches returns a user's match history
	ListUserMatches(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Match, error)
}

// ResultService owns result submission and admin verification
type ResultService interface {
	// SubmitResult attaches a screenshot to a participant; the first
	// submission moves the match from LIVE to COMPLETED
	SubmitResult(ctx context.Context, matchID, userID uuid.UUID, screenshotURL string) (*models.MatchDetail, error)

	// Verify designates the winner, credits the prize and finalizes the
	// match as VERIFIED. The caller must already be authorized as admin.
	Verify(ctx context.Context, matchID, winnerID uuid.UUID) (*models.Match, error)

	// FlagStaleCompletions marks COMPLETED matches older than the window
	// for admin review, returning how many were flagged
	FlagStaleCompletions(ctx context.Context, window time.Duration) (int, error)
}

// UserService defines the interface for account operations
type UserService interface {
	// GetOrCreateUser retrieves an account or creates one with the starting balance
	GetOrCreateUser(ctx context.Context, userID uuid.UUID, displayName string) (*models.User, error)

	// GetUser retrieves an account by ID
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetLedger returns a user's balance history
	GetLedger(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error)

	// ListUsers returns all accounts. Admin only.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// AdjustBalance applies a signed admin adjustment with a ledger record.
	// The caller must already be authorized as admin.
	AdjustBalance(ctx context.Context, userID uuid.UUID, amount int64, description string) (*models.User, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	MatchRepository() MatchRepository
	TransactionRepository() TransactionRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
