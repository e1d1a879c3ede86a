package service

import (
	"context"
	"fmt"
	"time"

	"arenasrv/events"
	"arenasrv/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type resultService struct {
	uowFactory UnitOfWorkFactory
}

// NewResultService creates a new result service
func NewResultService(uowFactory UnitOfWorkFactory) ResultService {
	return &resultService{uowFactory: uowFactory}
}

// SubmitResult attaches a participant's result screenshot. The first
// submission on a LIVE match moves it to COMPLETED; the other participant may
// still attach their own screenshot afterwards without changing the status.
// A participant cannot replace a screenshot they already submitted.
func (s *resultService) SubmitResult(ctx context.Context, matchID, userID uuid.UUID, screenshotURL string) (*models.MatchDetail, error) {
	if screenshotURL == "" {
		return nil, fmt.Errorf("screenshot URL cannot be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetForUpdate(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("match: %w", models.ErrNotFound)
	}

	if match.Status != models.MatchStatusLive && match.Status != models.MatchStatusCompleted {
		return nil, models.NewInvalidTransition(match.Status, models.MatchStatusCompleted)
	}

	participants, err := uow.MatchRepository().GetParticipants(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	detail := &models.MatchDetail{Match: match, Participants: participants}
	participant := detail.Participant(userID)
	if participant == nil {
		return nil, models.ErrNotParticipant
	}
	if participant.HasSubmitted() {
		return nil, models.ErrAlreadySubmitted
	}

	participant.ScreenshotURL = &screenshotURL
	if err := uow.MatchRepository().SaveParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to save participant: %w", err)
	}

	if match.Status == models.MatchStatusLive {
		oldStatus := match.Status
		now := time.Now()
		match.Status = models.MatchStatusCompleted
		match.CompletedAt = &now
		if err := uow.MatchRepository().Update(ctx, match); err != nil {
			return nil, fmt.Errorf("failed to update match: %w", err)
		}
		uow.EventBus().Publish(events.MatchUpdatedEvent{
			MatchID:   matchID,
			OldStatus: oldStatus,
			NewStatus: match.Status,
		})
	}

	uow.EventBus().Publish(events.ParticipantUpdatedEvent{
		MatchID: matchID,
		UserID:  userID,
		Ready:   participant.Ready,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{"matchID": matchID, "userID": userID}).Info("Result submitted")

	return detail, nil
}

// Verify settles a COMPLETED match: the winner's prize is credited exactly
// once, win/loss counters are bumped for every participant, and the match is
// sealed as VERIFIED. Verifying twice fails with ErrAlreadyVerified rather
// than paying out again.
func (s *resultService) Verify(ctx context.Context, matchID, winnerID uuid.UUID) (*models.Match, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetForUpdate(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("match: %w", models.ErrNotFound)
	}

	if match.Status == models.MatchStatusVerified {
		return nil, models.ErrAlreadyVerified
	}
	if !match.Status.CanTransitionTo(models.MatchStatusVerified) {
		return nil, models.NewInvalidTransition(match.Status, models.MatchStatusVerified)
	}

	participants, err := uow.MatchRepository().GetParticipants(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	detail := &models.MatchDetail{Match: match, Participants: participants}
	if !detail.IsParticipant(winnerID) {
		return nil, fmt.Errorf("winner: %w", models.ErrNotParticipant)
	}

	// Row lock plus this check keeps the payout single-shot even if two
	// admins verify concurrently. The partial unique index on prize rows
	// backstops it at the schema level.
	credited, err := uow.TransactionRepository().HasPrizeCredit(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to check prize credit: %w", err)
	}
	if credited {
		return nil, models.ErrAlreadyVerified
	}

	winner, err := uow.UserRepository().GetByID(ctx, winnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winner: %w", err)
	}
	if winner == nil {
		return nil, fmt.Errorf("winner: %w", models.ErrNotFound)
	}

	if err := creditPrize(ctx, uow, match, winner); err != nil {
		return nil, err
	}

	for _, p := range participants {
		won := p.UserID == winnerID
		if err := uow.UserRepository().RecordMatchOutcome(ctx, p.UserID, won); err != nil {
			return nil, fmt.Errorf("failed to record outcome: %w", err)
		}
	}

	oldStatus := match.Status
	now := time.Now()
	match.Status = models.MatchStatusVerified
	match.WinnerID = &winnerID
	match.VerifiedAt = &now
	if err := uow.MatchRepository().Update(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	uow.EventBus().Publish(events.MatchVerifiedEvent{
		MatchID:  matchID,
		WinnerID: winnerID,
		Prize:    match.PrizeAmount,
		GameType: match.GameType,
	})
	uow.EventBus().Publish(events.MatchUpdatedEvent{
		MatchID:   matchID,
		OldStatus: oldStatus,
		NewStatus: match.Status,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"matchID":  matchID,
		"winnerID": winnerID,
		"prize":    match.PrizeAmount,
	}).Info("Match verified")

	return match, nil
}

// FlagStaleCompletions marks COMPLETED matches older than the window for
// manual review. Returns the number of matches flagged.
func (s *resultService) FlagStaleCompletions(ctx context.Context, window time.Duration) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cutoff := time.Now().Add(-window)
	matches, err := uow.MatchRepository().ListStaleCompleted(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale matches: %w", err)
	}

	for _, match := range matches {
		match.ReviewFlagged = true
		if err := uow.MatchRepository().Update(ctx, match); err != nil {
			return 0, fmt.Errorf("failed to flag match %s: %w", match.ID, err)
		}
		uow.EventBus().Publish(events.MatchUpdatedEvent{
			MatchID:   match.ID,
			OldStatus: match.Status,
			NewStatus: match.Status,
		})
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if len(matches) > 0 {
		log.WithField("count", len(matches)).Info("Flagged stale completed matches for review")
	}

	return len(matches), nil
}
