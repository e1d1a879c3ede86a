package repository

import (
	"context"
	"fmt"
	"time"

	"arenasrv/database"
	"arenasrv/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MatchRepository implements all match and participant data access
type MatchRepository struct {
	q queryable
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{q: db.Pool}
}

// newMatchRepositoryWithTx creates a new match repository bound to a transaction
func newMatchRepositoryWithTx(tx queryable) *MatchRepository {
	return &MatchRepository{q: tx}
}

const matchColumns = `id, game_type, entry_fee, prize_amount, capacity, room_code, status,
	host_id, winner_id, review_flagged, created_at, updated_at, completed_at, verified_at`

func scanMatch(row pgx.Row) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID,
		&m.GameType,
		&m.EntryFee,
		&m.PrizeAmount,
		&m.Capacity,
		&m.RoomCode,
		&m.Status,
		&m.HostID,
		&m.WinnerID,
		&m.ReviewFlagged,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.CompletedAt,
		&m.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new match record
func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, game_type, entry_fee, prize_amount, capacity, room_code, status, host_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		match.ID,
		match.GameType,
		match.EntryFee,
		match.PrizeAmount,
		match.Capacity,
		match.RoomCode,
		match.Status,
		match.HostID,
	).Scan(&match.CreatedAt, &match.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create match %s: %w", match.ID, err)
	}

	return nil
}

// GetByID retrieves a match by its ID
func (r *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", id, err)
	}
	return match, nil
}

// GetForUpdate retrieves a match and locks its row for the remainder of the
// transaction. Every mutating path goes through this, which serializes
// concurrent joins, ready flips, submissions and verifications per match.
func (r *MatchRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`

	match, err := scanMatch(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock match %s: %w", id, err)
	}
	return match, nil
}

// Update persists a match's mutable fields
func (r *MatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET status = $1, winner_id = $2, review_flagged = $3,
		    completed_at = $4, verified_at = $5, updated_at = NOW()
		WHERE id = $6
	`

	result, err := r.q.Exec(ctx, query,
		match.Status,
		match.WinnerID,
		match.ReviewFlagged,
		match.CompletedAt,
		match.VerifiedAt,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", match.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("match %s: %w", match.ID, models.ErrNotFound)
	}

	return nil
}

// Delete removes a match; participants cascade, ledger rows keep their
// amounts with match_id set null so the audit trail survives.
func (r *MatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("match %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// AddParticipant inserts a participant row for a match
func (r *MatchRepository) AddParticipant(ctx context.Context, participant *models.Participant) error {
	query := `
		INSERT INTO participants (match_id, user_id, ready)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		participant.MatchID,
		participant.UserID,
		participant.Ready,
	).Scan(&participant.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to add participant %s to match %s: %w",
			participant.UserID, participant.MatchID, err)
	}

	return nil
}

// SaveParticipant updates a participant's ready flag and screenshot reference
func (r *MatchRepository) SaveParticipant(ctx context.Context, participant *models.Participant) error {
	query := `
		UPDATE participants
		SET ready = $1, screenshot_url = $2
		WHERE match_id = $3 AND user_id = $4
	`

	result, err := r.q.Exec(ctx, query,
		participant.Ready,
		participant.ScreenshotURL,
		participant.MatchID,
		participant.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to save participant %s in match %s: %w",
			participant.UserID, participant.MatchID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("participant %s in match %s: %w",
			participant.UserID, participant.MatchID, models.ErrNotFound)
	}

	return nil
}

// GetParticipants returns all participants of a match in join order
func (r *MatchRepository) GetParticipants(ctx context.Context, matchID uuid.UUID) ([]*models.Participant, error) {
	query := `
		SELECT match_id, user_id, ready, screenshot_url, created_at
		FROM participants
		WHERE match_id = $1
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants for match %s: %w", matchID, err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.MatchID, &p.UserID, &p.Ready, &p.ScreenshotURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// ListOpen returns PENDING matches that still have a free slot, newest first
func (r *MatchRepository) ListOpen(ctx context.Context, limit int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		WHERE m.status = 'PENDING'
		  AND (SELECT COUNT(*) FROM participants p WHERE p.match_id = m.id) < m.capacity
		ORDER BY m.created_at DESC
		LIMIT $1
	`
	return r.listMatches(ctx, query, limit)
}

// ListByStatus returns matches in a given status, newest first
func (r *MatchRepository) ListByStatus(ctx context.Context, status models.MatchStatus, limit int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = $2
		ORDER BY created_at DESC
		LIMIT $1
	`
	return r.listMatches(ctx, query, limit, status)
}

// ListReviewFlagged returns COMPLETED matches flagged for manual review,
// oldest completion first
func (r *MatchRepository) ListReviewFlagged(ctx context.Context, limit int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = 'COMPLETED'
		  AND review_flagged = TRUE
		ORDER BY completed_at
		LIMIT $1
	`
	return r.listMatches(ctx, query, limit)
}

// ListByUser returns all matches a user participates in, newest first
func (r *MatchRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Match, error) {
	// Columns are m-qualified; participants shares created_at
	query := `
		SELECT m.id, m.game_type, m.entry_fee, m.prize_amount, m.capacity, m.room_code, m.status,
			m.host_id, m.winner_id, m.review_flagged, m.created_at, m.updated_at, m.completed_at, m.verified_at
		FROM matches m
		JOIN participants p ON p.match_id = m.id
		WHERE p.user_id = $2
		ORDER BY m.created_at DESC
		LIMIT $1
	`
	return r.listMatches(ctx, query, limit, userID)
}

// ListStaleCompleted returns unflagged COMPLETED matches whose completion
// predates the cutoff.
func (r *MatchRepository) ListStaleCompleted(ctx context.Context, cutoff time.Time) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = 'COMPLETED'
		  AND review_flagged = FALSE
		  AND completed_at < $1
		ORDER BY completed_at
	`

	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale completed matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

func (r *MatchRepository) listMatches(ctx context.Context, query string, limit int, args ...any) ([]*models.Match, error) {
	queryArgs := append([]any{limit}, args...)
	rows, err := r.q.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

func collectMatches(rows pgx.Rows) ([]*models.Match, error) {
	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return matches, nil
}
