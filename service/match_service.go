package service

import (
	"context"
	"fmt"
	"math/rand"

	"arenasrv/events"
	"arenasrv/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type matchService struct {
	uowFactory      UnitOfWorkFactory
	platformFeeRate float64
}

// NewMatchService creates a new match service
func NewMatchService(uowFactory UnitOfWorkFactory, platformFeeRate float64) MatchService {
	return &matchService{
		uowFactory:      uowFactory,
		platformFeeRate: platformFeeRate,
	}
}

// CreateMatch opens a new room: the prize pool is fixed here from the entry
// fee and capacity, the host becomes the first participant, and their entry
// fee is reserved in the same commit.
func (s *matchService) CreateMatch(ctx context.Context, hostID uuid.UUID, gameType string, entryFee int64, capacity int) (*models.MatchDetail, error) {
	// Validate inputs
	if gameType == "" {
		return nil, fmt.Errorf("game type cannot be empty")
	}
	if entryFee <= 0 {
		return nil, fmt.Errorf("entry fee must be positive")
	}
	if capacity < 2 {
		return nil, fmt.Errorf("capacity must be at least 2")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	host, err := uow.UserRepository().GetByID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host: %w", err)
	}
	if host == nil {
		return nil, fmt.Errorf("host: %w", models.ErrNotFound)
	}
	if host.Balance < entryFee {
		return nil, fmt.Errorf("have %d, need %d: %w", host.Balance, entryFee, models.ErrInsufficientFunds)
	}

	match := &models.Match{
		ID:          uuid.New(),
		GameType:    gameType,
		EntryFee:    entryFee,
		PrizeAmount: ComputePrizePool(entryFee, capacity, s.platformFeeRate),
		Capacity:    capacity,
		RoomCode:    fmt.Sprintf("%04d", 1000+rand.Intn(9000)),
		Status:      models.MatchStatusPending,
		HostID:      hostID,
	}

	if err := uow.MatchRepository().Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	participant := &models.Participant{MatchID: match.ID, UserID: hostID}
	if err := uow.MatchRepository().AddParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to add host participant: %w", err)
	}

	if err := reserveEntry(ctx, uow, host, match); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.MatchUpdatedEvent{
		MatchID:   match.ID,
		OldStatus: match.Status,
		NewStatus: match.Status,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"matchID":  match.ID,
		"hostID":   hostID,
		"entryFee": entryFee,
		"prize":    match.PrizeAmount,
	}).Info("Match created")

	return &models.MatchDetail{
		Match:        match,
		Participants: []*models.Participant{participant},
	}, nil
}

// JoinMatch adds a user to a PENDING match. The match row is locked first,
// so concurrent joins serialize and the capacity check cannot be raced past.
func (s *matchService) JoinMatch(ctx context.Context, matchID, userID uuid.UUID, roomCode string) (*models.MatchDetail, error) {
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

	if match.Status != models.MatchStatusPending {
		return nil, fmt.Errorf("match is %s: %w", match.Status, models.ErrInvalidTransition)
	}
	if roomCode != match.RoomCode {
		return nil, models.ErrInvalidRoomCode
	}

	participants, err := uow.MatchRepository().GetParticipants(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	detail := &models.MatchDetail{Match: match, Participants: participants}
	if detail.IsParticipant(userID) {
		return nil, models.ErrAlreadyJoined
	}
	if detail.IsFull() {
		return nil, models.ErrCapacityExceeded
	}

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}

	if err := reserveEntry(ctx, uow, user, match); err != nil {
		return nil, err
	}

	participant := &models.Participant{MatchID: matchID, UserID: userID}
	if err := uow.MatchRepository().AddParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}
	detail.Participants = append(detail.Participants, participant)

	uow.EventBus().Publish(events.ParticipantUpdatedEvent{MatchID: matchID, UserID: userID})
	uow.EventBus().Publish(events.MatchUpdatedEvent{
		MatchID:   matchID,
		OldStatus: match.Status,
		NewStatus: match.Status,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{"matchID": matchID, "userID": userID}).Info("User joined match")

	return detail, nil
}

// SetReady flags a participant ready. Setting ready twice is a no-op. The
// readiness reevaluation runs under the match row lock, so when two
// participants flip ready at the same instant one of them observes the full
// roster and performs exactly one PENDING to LIVE transition.
func (s *matchService) SetReady(ctx context.Context, matchID, userID uuid.UUID) (*models.MatchDetail, error) {
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

	if match.Status != models.MatchStatusPending {
		return nil, fmt.Errorf("match is %s: %w", match.Status, models.ErrInvalidTransition)
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

	if !participant.Ready {
		participant.Ready = true
		if err := uow.MatchRepository().SaveParticipant(ctx, participant); err != nil {
			return nil, fmt.Errorf("failed to save participant: %w", err)
		}
		uow.EventBus().Publish(events.ParticipantUpdatedEvent{
			MatchID: matchID,
			UserID:  userID,
			Ready:   true,
		})
	}

	if detail.IsFull() && detail.AllReady() {
		if !match.Status.CanTransitionTo(models.MatchStatusLive) {
			return nil, models.NewInvalidTransition(match.Status, models.MatchStatusLive)
		}
		oldStatus := match.Status
		match.Status = models.MatchStatusLive
		if err := uow.MatchRepository().Update(ctx, match); err != nil {
			return nil, fmt.Errorf("failed to update match: %w", err)
		}
		uow.EventBus().Publish(events.MatchUpdatedEvent{
			MatchID:   matchID,
			OldStatus: oldStatus,
			NewStatus: match.Status,
		})
		log.WithField("matchID", matchID).Info("All participants ready, match is live")
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return detail, nil
}

// CancelMatch moves a PENDING match to CANCELLED and refunds every collected
// entry fee. Hosts may only cancel before an opponent has joined; admins may
// cancel any PENDING match.
func (s *matchService) CancelMatch(ctx context.Context, matchID, callerID uuid.UUID, isAdmin bool) (*models.Match, error) {
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

	if !match.Status.CanTransitionTo(models.MatchStatusCancelled) {
		return nil, models.NewInvalidTransition(match.Status, models.MatchStatusCancelled)
	}

	participants, err := uow.MatchRepository().GetParticipants(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	if !isAdmin {
		if !match.IsHost(callerID) {
			return nil, models.ErrNotParticipant
		}
		if len(participants) > 1 {
			return nil, fmt.Errorf("opponents have already joined: %w", models.ErrInvalidTransition)
		}
	}

	if err := refundEntries(ctx, uow, match, participants); err != nil {
		return nil, err
	}

	oldStatus := match.Status
	match.Status = models.MatchStatusCancelled
	if err := uow.MatchRepository().Update(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	uow.EventBus().Publish(events.MatchUpdatedEvent{
		MatchID:   matchID,
		OldStatus: oldStatus,
		NewStatus: match.Status,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{"matchID": matchID, "refunded": len(participants)}).Info("Match cancelled")

	return match, nil
}

// DeleteMatch removes a match row entirely. Entry fees are refunded first
// unless the match already reached a terminal state (a VERIFIED match has
// paid out, a CANCELLED one has already refunded). Ledger rows survive with
// their match reference cleared.
func (s *matchService) DeleteMatch(ctx context.Context, matchID uuid.UUID) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetForUpdate(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return fmt.Errorf("match: %w", models.ErrNotFound)
	}

	if !match.Status.IsTerminal() {
		participants, err := uow.MatchRepository().GetParticipants(ctx, matchID)
		if err != nil {
			return fmt.Errorf("failed to get participants: %w", err)
		}
		if err := refundEntries(ctx, uow, match, participants); err != nil {
			return err
		}
	}

	if err := uow.MatchRepository().Delete(ctx, matchID); err != nil {
		return err
	}

	uow.EventBus().Publish(events.MatchUpdatedEvent{
		MatchID:   matchID,
		OldStatus: match.Status,
		NewStatus: models.MatchStatusCancelled,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("matchID", matchID).Info("Match deleted")

	return nil
}

// GetMatch returns a match with its participants
func (s *matchService) GetMatch(ctx context.Context, matchID uuid.UUID) (*models.MatchDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("match: %w", models.ErrNotFound)
	}

	participants, err := uow.MatchRepository().GetParticipants(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	return &models.MatchDetail{Match: match, Participants: participants}, nil
}

// ListOpenMatches returns joinable matches
func (s *matchService) ListOpenMatches(ctx context.Context, limit int) ([]*models.Match, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	matches, err := uow.MatchRepository().ListOpen(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list open matches: %w", err)
	}

	return matches, nil
}

// ListMatchesByStatus returns matches in a given status
func (s *matchService) ListMatchesByStatus(ctx context.Context, status models.MatchStatus, limit int) ([]*models.Match, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	matches, err := uow.MatchRepository().ListByStatus(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	return matches, nil
}

// ListReviewQueue returns COMPLETED matches flagged for manual review
func (s *matchService) ListReviewQueue(ctx context.Context, limit int) ([]*models.Match, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	matches, err := uow.MatchRepository().ListReviewFlagged(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list review queue: %w", err)
	}

	return matches, nil
}

// ListUserMatches returns a user's match history
func (s *matchService) ListUserMatches(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Match, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	matches, err := uow.MatchRepository().ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list user matches: %w", err)
	}

	return matches, nil
}
