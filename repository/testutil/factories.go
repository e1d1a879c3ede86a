package testutil

import (
	"arenasrv/models"

	"github.com/google/uuid"
)

// CreateTestUser builds a user fixture with the given balance
func CreateTestUser(displayName string, balance int64) *models.User {
	return &models.User{
		ID:          uuid.New(),
		DisplayName: displayName,
		Balance:     balance,
	}
}

// CreateTestMatch builds a PENDING match fixture hosted by hostID
func CreateTestMatch(hostID uuid.UUID, entryFee int64, capacity int) *models.Match {
	return &models.Match{
		ID:          uuid.New(),
		GameType:    "warzone",
		EntryFee:    entryFee,
		PrizeAmount: entryFee * int64(capacity) * 9 / 10,
		Capacity:    capacity,
		RoomCode:    "4242",
		Status:      models.MatchStatusPending,
		HostID:      hostID,
	}
}
