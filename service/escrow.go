package service

import (
	"context"
	"fmt"
	"math"

	"arenasrv/events"
	"arenasrv/models"
)

// ComputePrizePool derives the winner's payout from the entry fees minus the
// platform cut. Computed once at match creation and stored immutably; it is
// never recalculated as participants come and go.
func ComputePrizePool(entryFee int64, capacity int, platformFeeRate float64) int64 {
	pot := float64(entryFee) * float64(capacity)
	return int64(math.Round(pot * (1 - platformFeeRate)))
}

// recordTransaction appends a ledger entry and queues a balance change event.
// This is the single entry point pairing every balance mutation with its
// audit record; the event is only emitted after the transaction commits.
func recordTransaction(ctx context.Context, uow UnitOfWork, txn *models.Transaction) error {
	if err := uow.TransactionRepository().Record(ctx, txn); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       txn.UserID,
		OldBalance:   txn.BalanceBefore,
		NewBalance:   txn.BalanceAfter,
		ChangeAmount: txn.Amount,
		Kind:         txn.Kind,
	})

	return nil
}

// reserveEntry debits a user's entry fee for a match and records the debit.
// Identical semantics at creation time (host) and join time (opponent):
// the balance check and the deduction are one atomic statement, and a failed
// check leaves no mutation behind.
func reserveEntry(ctx context.Context, uow UnitOfWork, user *models.User, match *models.Match) error {
	if err := uow.UserRepository().DeductBalance(ctx, user.ID, match.EntryFee); err != nil {
		return err
	}

	return recordTransaction(ctx, uow, &models.Transaction{
		UserID:        user.ID,
		MatchID:       &match.ID,
		Kind:          models.TransactionKindEntryFee,
		Amount:        -match.EntryFee,
		BalanceBefore: user.Balance,
		BalanceAfter:  user.Balance - match.EntryFee,
		Description:   fmt.Sprintf("Entry fee for %s match", match.GameType),
	})
}

// refundEntries reverses every collected entry fee with a compensating
// credit, leaving each participant's net balance unchanged and the audit
// trail intact.
func refundEntries(ctx context.Context, uow UnitOfWork, match *models.Match, participants []*models.Participant) error {
	for _, p := range participants {
		user, err := uow.UserRepository().GetByID(ctx, p.UserID)
		if err != nil {
			return fmt.Errorf("failed to get participant %s: %w", p.UserID, err)
		}
		if user == nil {
			return fmt.Errorf("participant %s: %w", p.UserID, models.ErrNotFound)
		}

		if err := uow.UserRepository().AddBalance(ctx, user.ID, match.EntryFee); err != nil {
			return fmt.Errorf("failed to refund participant %s: %w", p.UserID, err)
		}

		err = recordTransaction(ctx, uow, &models.Transaction{
			UserID:        user.ID,
			MatchID:       &match.ID,
			Kind:          models.TransactionKindRefund,
			Amount:        match.EntryFee,
			BalanceBefore: user.Balance,
			BalanceAfter:  user.Balance + match.EntryFee,
			Description:   fmt.Sprintf("Refund for %s match", match.GameType),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// creditPrize pays the stored prize amount to the winner and records the
// credit. Callers hold the match row lock and have already run the
// idempotency guard.
func creditPrize(ctx context.Context, uow UnitOfWork, match *models.Match, winner *models.User) error {
	if err := uow.UserRepository().AddBalance(ctx, winner.ID, match.PrizeAmount); err != nil {
		return fmt.Errorf("failed to credit winner %s: %w", winner.ID, err)
	}

	return recordTransaction(ctx, uow, &models.Transaction{
		UserID:        winner.ID,
		MatchID:       &match.ID,
		Kind:          models.TransactionKindPrize,
		Amount:        match.PrizeAmount,
		BalanceBefore: winner.Balance,
		BalanceAfter:  winner.Balance + match.PrizeAmount,
		Description:   fmt.Sprintf("Prize for %s match", match.GameType),
	})
}
