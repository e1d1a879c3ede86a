package service

import (
	"context"
	"fmt"

	"arenasrv/events"
	"arenasrv/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type userService struct {
	uowFactory      UnitOfWorkFactory
	startingBalance int64
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, startingBalance int64) UserService {
	return &userService{
		uowFactory:      uowFactory,
		startingBalance: startingBalance,
	}
}

// GetOrCreateUser returns the user, creating them with the starting balance
// and an opening ledger entry on first sight.
func (s *userService) GetOrCreateUser(ctx context.Context, userID uuid.UUID, displayName string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = uow.UserRepository().Create(ctx, userID, displayName, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = recordTransaction(ctx, uow, &models.Transaction{
		UserID:        userID,
		Kind:          models.TransactionKindInitial,
		Amount:        s.startingBalance,
		BalanceBefore: 0,
		BalanceAfter:  s.startingBalance,
		Description:   "Starting balance",
	})
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:         userID,
		DisplayName:    displayName,
		InitialBalance: s.startingBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":      userID,
		"displayName": displayName,
	}).Info("User created")

	return user, nil
}

// GetUser returns a user by ID
func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}

	return user, nil
}

// GetLedger returns a user's transaction history, newest first
func (s *userService) GetLedger(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	transactions, err := uow.TransactionRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}

	return transactions, nil
}

// ListUsers returns all users
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// AdjustBalance applies a signed admin adjustment. Negative amounts go
// through the guarded deduction path, so an adjustment can never push a
// balance below zero.
func (s *userService) AdjustBalance(ctx context.Context, userID uuid.UUID, amount int64, description string) (*models.User, error) {
	if amount == 0 {
		return nil, fmt.Errorf("adjustment amount cannot be zero")
	}
	if description == "" {
		return nil, fmt.Errorf("adjustment description cannot be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}

	balanceBefore := user.Balance
	if amount > 0 {
		if err := uow.UserRepository().AddBalance(ctx, userID, amount); err != nil {
			return nil, fmt.Errorf("failed to add balance: %w", err)
		}
	} else {
		if err := uow.UserRepository().DeductBalance(ctx, userID, -amount); err != nil {
			return nil, err
		}
	}
	user.Balance = balanceBefore + amount

	err = recordTransaction(ctx, uow, &models.Transaction{
		UserID:        userID,
		Kind:          models.TransactionKindAdminAdjust,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  user.Balance,
		Description:   description,
	})
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"amount": amount,
	}).Info("Admin balance adjustment")

	return user, nil
}
