package service

import (
	"context"
	"errors"
	"testing"

	"arenasrv/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMatchService_CreateMatch_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockMatchRepo := new(MockMatchRepository)
	mockTxnRepo := new(MockTransactionRepository)
	bus := &MockEventPublisher{}

	mockUoW.SetRepositories(mockUserRepo, mockMatchRepo, mockTxnRepo, bus)

	service := NewMatchService(mockFactory, 0.10)

	hostID := uuid.New()
	host := &models.User{ID: hostID, DisplayName: "host", Balance: 500}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, hostID).Return(host, nil)
	mockMatchRepo.On("Create", ctx, mock.MatchedBy(func(m *models.Match) bool {
		return m.GameType == "warzone" &&
			m.EntryFee == 100 &&
			m.PrizeAmount == 180 &&
			m.Capacity == 2 &&
			m.Status == models.MatchStatusPending &&
			m.HostID == hostID &&
			len(m.RoomCode) == 4
	})).Return(nil)
	mockMatchRepo.On("AddParticipant", ctx, mock.MatchedBy(func(p *models.Participant) bool {
		return p.UserID == hostID && !p.Ready
	})).Return(nil)
	mockUserRepo.On("DeductBalance", ctx, hostID, int64(100)).Return(nil)
	mockTxnRepo.On("Record", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.UserID == hostID &&
			txn.Kind == models.TransactionKindEntryFee &&
			txn.Amount == -100
	})).Return(nil)

	detail, err := service.CreateMatch(ctx, hostID, "warzone", 100, 2)

	assert.NoError(t, err)
	assert.Equal(t, models.MatchStatusPending, detail.Match.Status)
	assert.Len(t, detail.Participants, 1)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockMatchRepo.AssertExpectations(t)
	mockTxnRepo.AssertExpectations(t)
}

func TestMatchService_CreateMatch_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	hostID := uuid.New()
	host := &models.User{ID: hostID, Balance: 50}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByID", ctx, hostID).Return(host, nil)

	_, err := service.CreateMatch(ctx, hostID, "warzone", 100, 2)

	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestMatchService_CreateMatch_InvalidInputs(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewMatchService(mockFactory, 0.10)
	hostID := uuid.New()

	_, err := service.CreateMatch(ctx, hostID, "", 100, 2)
	assert.Error(t, err)

	_, err = service.CreateMatch(ctx, hostID, "warzone", 0, 2)
	assert.Error(t, err)

	_, err = service.CreateMatch(ctx, hostID, "warzone", 100, 1)
	assert.Error(t, err)

	mockFactory.AssertNotCalled(t, "Create")
}

func TestMatchService_JoinMatch_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockMatchRepo := new(MockMatchRepository)
	mockTxnRepo := new(MockTransactionRepository)

	mockUoW.SetRepositories(mockUserRepo, mockMatchRepo, mockTxnRepo, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	hostID := uuid.New()
	joinerID := uuid.New()
	match := &models.Match{
		ID:       matchID,
		EntryFee: 100,
		Capacity: 2,
		RoomCode: "4242",
		Status:   models.MatchStatusPending,
		HostID:   hostID,
	}
	joiner := &models.User{ID: joinerID, Balance: 300}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)
	mockMatchRepo.On("GetParticipants", ctx, matchID).Return([]*models.Participant{
		{MatchID: matchID, UserID: hostID},
	}, nil)
	mockUserRepo.On("GetByID", ctx, joinerID).Return(joiner, nil)
	mockUserRepo.On("DeductBalance", ctx, joinerID, int64(100)).Return(nil)
	mockTxnRepo.On("Record", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)
	mockMatchRepo.On("AddParticipant", ctx, mock.MatchedBy(func(p *models.Participant) bool {
		return p.MatchID == matchID && p.UserID == joinerID
	})).Return(nil)

	detail, err := service.JoinMatch(ctx, matchID, joinerID, "4242")

	assert.NoError(t, err)
	assert.Len(t, detail.Participants, 2)

	mockMatchRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestMatchService_JoinMatch_WrongRoomCode(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, mockMatchRepo, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	match := &models.Match{
		ID:       matchID,
		RoomCode: "4242",
		Status:   models.MatchStatusPending,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)

	_, err := service.JoinMatch(ctx, matchID, uuid.New(), "9999")

	assert.ErrorIs(t, err, models.ErrInvalidRoomCode)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestMatchService_JoinMatch_AlreadyJoined(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, mockMatchRepo, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	userID := uuid.New()
	match := &models.Match{
		ID:       matchID,
		Capacity: 2,
		RoomCode: "4242",
		Status:   models.MatchStatusPending,
		HostID:   userID,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)
	mockMatchRepo.On("GetParticipants", ctx, matchID).Return([]*models.Participant{
		{MatchID: matchID, UserID: userID},
	}, nil)

	_, err := service.JoinMatch(ctx, matchID, userID, "4242")

	assert.ErrorIs(t, err, models.ErrAlreadyJoined)
}

func TestMatchService_JoinMatch_Full(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, mockMatchRepo, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	match := &models.Match{
		ID:       matchID,
		Capacity: 2,
		RoomCode: "4242",
		Status:   models.MatchStatusPending,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)
	mockMatchRepo.On("GetParticipants", ctx, matchID).Return([]*models.Participant{
		{MatchID: matchID, UserID: uuid.New()},
		{MatchID: matchID, UserID: uuid.New()},
	}, nil)

	_, err := service.JoinMatch(ctx, matchID, uuid.New(), "4242")

	assert.ErrorIs(t, err, models.ErrCapacityExceeded)
}

func TestMatchService_JoinMatch_NotPending(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, mockMatchRepo, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	match := &models.Match{
		ID:       matchID,
		RoomCode: "4242",
		Status:   models.MatchStatusLive,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)

	_, err := service.JoinMatch(ctx, matchID, uuid.New(), "4242")

	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestMatchService_SetReady_TransitionsToLive(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)
	bus := &MockEventPublisher{}

	mockUoW.SetRepositories(nil, mockMatchRepo, nil, bus)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	hostID := uuid.New()
	joinerID := uuid.New()
	match := &models.Match{
		ID:       matchID,
		Capacity: 2,
		Status:   models.MatchStatusPending,
		HostID:   hostID,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)
	mockMatchRepo.On("GetParticipants", ctx, matchID).Return([]*models.Participant{
		{MatchID: matchID, UserID: hostID, Ready: true},
		{MatchID: matchID, UserID: joinerID, Ready: false},
	}, nil)
	mockMatchRepo.On("SaveParticipant", ctx, mock.MatchedBy(func(p *models.Participant) bool {
		return p.UserID == joinerID && p.Ready
	})).Return(nil)
	mockMatchRepo.On("Update", ctx, mock.MatchedBy(func(m *models.Match) bool {
		return m.Status == models.MatchStatusLive
	})).Return(nil)

	detail, err := service.SetReady(ctx, matchID, joinerID)

	assert.NoError(t, err)
	assert.Equal(t, models.MatchStatusLive, detail.Match.Status)

	mockMatchRepo.AssertExpectations(t)
}

func TestMatchService_SetReady_Idempotent(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, mockMatchRepo, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	hostID := uuid.New()
	match := &models.Match{
		ID:       matchID,
		Capacity: 2,
		Status:   models.MatchStatusPending,
		HostID:   hostID,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// Host already ready; roster not full, so no transition either.
	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)
	mockMatchRepo.On("GetParticipants", ctx, matchID).Return([]*models.Participant{
		{MatchID: matchID, UserID: hostID, Ready: true},
	}, nil)

	detail, err := service.SetReady(ctx, matchID, hostID)

	assert.NoError(t, err)
	assert.Equal(t, models.MatchStatusPending, detail.Match.Status)
	mockMatchRepo.AssertNotCalled(t, "SaveParticipant")
	mockMatchRepo.AssertNotCalled(t, "Update")
}

func TestMatchService_SetReady_NotParticipant(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, mockMatchRepo, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	match := &models.Match{ID: matchID, Capacity: 2, Status: models.MatchStatusPending}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)
	mockMatchRepo.On("GetParticipants", ctx, matchID).Return([]*models.Participant{
		{MatchID: matchID, UserID: uuid.New()},
	}, nil)

	_, err := service.SetReady(ctx, matchID, uuid.New())

	assert.ErrorIs(t, err, models.ErrNotParticipant)
}

func TestMatchService_CancelMatch_HostRefund(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockMatchRepo := new(MockMatchRepository)
	mockTxnRepo := new(MockTransactionRepository)

	mockUoW.SetRepositories(mockUserRepo, mockMatchRepo, mockTxnRepo, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	hostID := uuid.New()
	match := &models.Match{
		ID:       matchID,
		EntryFee: 100,
		Capacity: 2,
		Status:   models.MatchStatusPending,
		HostID:   hostID,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)
	mockMatchRepo.On("GetParticipants", ctx, matchID).Return([]*models.Participant{
		{MatchID: matchID, UserID: hostID},
	}, nil)
	mockUserRepo.On("GetByID", ctx, hostID).Return(&models.User{ID: hostID, Balance: 400}, nil)
	mockUserRepo.On("AddBalance", ctx, hostID, int64(100)).Return(nil)
	mockTxnRepo.On("Record", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Kind == models.TransactionKindRefund && txn.Amount == 100
	})).Return(nil)
	mockMatchRepo.On("Update", ctx, mock.MatchedBy(func(m *models.Match) bool {
		return m.Status == models.MatchStatusCancelled
	})).Return(nil)

	cancelled, err := service.CancelMatch(ctx, matchID, hostID, false)

	assert.NoError(t, err)
	assert.Equal(t, models.MatchStatusCancelled, cancelled.Status)

	mockUserRepo.AssertExpectations(t)
	mockTxnRepo.AssertExpectations(t)
}

func TestMatchService_CancelMatch_HostBlockedAfterJoin(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, mockMatchRepo, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	hostID := uuid.New()
	match := &models.Match{
		ID:       matchID,
		Capacity: 2,
		Status:   models.MatchStatusPending,
		HostID:   hostID,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)
	mockMatchRepo.On("GetParticipants", ctx, matchID).Return([]*models.Participant{
		{MatchID: matchID, UserID: hostID},
		{MatchID: matchID, UserID: uuid.New()},
	}, nil)

	_, err := service.CancelMatch(ctx, matchID, hostID, false)

	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestMatchService_CancelMatch_VerifiedRejected(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, mockMatchRepo, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	match := &models.Match{ID: matchID, Status: models.MatchStatusVerified}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)

	_, err := service.CancelMatch(ctx, matchID, uuid.New(), true)

	var transitionErr *models.InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.MatchStatusVerified, transitionErr.Current)
}

func TestMatchService_DeleteMatch_RefundsActiveMatch(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockMatchRepo := new(MockMatchRepository)
	mockTxnRepo := new(MockTransactionRepository)

	mockUoW.SetRepositories(mockUserRepo, mockMatchRepo, mockTxnRepo, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	p1 := uuid.New()
	p2 := uuid.New()
	match := &models.Match{
		ID:       matchID,
		EntryFee: 100,
		Capacity: 2,
		Status:   models.MatchStatusLive,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)
	mockMatchRepo.On("GetParticipants", ctx, matchID).Return([]*models.Participant{
		{MatchID: matchID, UserID: p1},
		{MatchID: matchID, UserID: p2},
	}, nil)
	mockUserRepo.On("GetByID", ctx, p1).Return(&models.User{ID: p1, Balance: 400}, nil)
	mockUserRepo.On("GetByID", ctx, p2).Return(&models.User{ID: p2, Balance: 200}, nil)
	mockUserRepo.On("AddBalance", ctx, p1, int64(100)).Return(nil)
	mockUserRepo.On("AddBalance", ctx, p2, int64(100)).Return(nil)
	mockTxnRepo.On("Record", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil).Twice()
	mockMatchRepo.On("Delete", ctx, matchID).Return(nil)

	err := service.DeleteMatch(ctx, matchID)

	assert.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
	mockMatchRepo.AssertExpectations(t)
}

func TestMatchService_DeleteMatch_NoRefundWhenVerified(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(mockUserRepo, mockMatchRepo, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()
	match := &models.Match{ID: matchID, Status: models.MatchStatusVerified}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetForUpdate", ctx, matchID).Return(match, nil)
	mockMatchRepo.On("Delete", ctx, matchID).Return(nil)

	err := service.DeleteMatch(ctx, matchID)

	assert.NoError(t, err)
	mockUserRepo.AssertNotCalled(t, "AddBalance")
}

func TestMatchService_GetMatch_NotFound(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, mockMatchRepo, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	matchID := uuid.New()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("GetByID", ctx, matchID).Return(nil, nil)

	_, err := service.GetMatch(ctx, matchID)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMatchService_CreateMatch_RepositoryError(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	hostID := uuid.New()
	dbErr := errors.New("connection lost")

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByID", ctx, hostID).Return(nil, dbErr)

	_, err := service.CreateMatch(ctx, hostID, "warzone", 100, 2)

	assert.ErrorIs(t, err, dbErr)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestMatchService_ListReviewQueue(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMatchRepo := new(MockMatchRepository)

	mockUoW.SetRepositories(nil, mockMatchRepo, nil, nil)

	service := NewMatchService(mockFactory, 0.10)

	flagged := &models.Match{ID: uuid.New(), Status: models.MatchStatusCompleted, ReviewFlagged: true}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMatchRepo.On("ListReviewFlagged", ctx, 50).Return([]*models.Match{flagged}, nil)

	matches, err := service.ListReviewQueue(ctx, 50)

	assert.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, flagged.ID, matches[0].ID)
	mockMatchRepo.AssertExpectations(t)
}
