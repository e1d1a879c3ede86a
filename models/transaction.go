package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind tags the reason for a balance change
type TransactionKind string

const (
	TransactionKindInitial     TransactionKind = "initial"
	TransactionKindEntryFee    TransactionKind = "entry_fee"
	TransactionKindRefund      TransactionKind = "refund"
	TransactionKindPrize       TransactionKind = "prize"
	TransactionKindAdminAdjust TransactionKind = "admin_adjust"
)

// Transaction is an append-only record of a single balance delta.
// Every balance mutation in the system pairs with exactly one of these.
type Transaction struct {
	ID            int64           `db:"id"`
	UserID        uuid.UUID       `db:"user_id"`
	MatchID       *uuid.UUID      `db:"match_id"`
	Kind          TransactionKind `db:"kind"`
	Amount        int64           `db:"amount"`
	BalanceBefore int64           `db:"balance_before"`
	BalanceAfter  int64           `db:"balance_after"`
	Description   string          `db:"description"`
	CreatedAt     time.Time       `db:"created_at"`
}
