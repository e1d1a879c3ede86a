package events

import (
	"context"
	"testing"
	"time"

	"arenasrv/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 1)

	bus.Subscribe(EventTypeMatchUpdated, func(ctx context.Context, e Event) {
		received <- e
	})

	matchID := uuid.New()
	bus.Emit(context.Background(), MatchUpdatedEvent{
		MatchID:   matchID,
		OldStatus: models.MatchStatusPending,
		NewStatus: models.MatchStatusLive,
	})

	select {
	case e := <-received:
		evt, ok := e.(MatchUpdatedEvent)
		require.True(t, ok)
		assert.Equal(t, matchID, evt.MatchID)
		assert.Equal(t, models.MatchStatusLive, evt.NewStatus)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBus_EmitSkipsOtherEventTypes(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 1)

	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, e Event) {
		received <- e
	})

	bus.Emit(context.Background(), MatchUpdatedEvent{MatchID: uuid.New()})

	select {
	case <-received:
		t.Fatal("handler received event of a different type")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTransactionalBus_FlushAfterCommit(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 2)
	bus.Subscribe(EventTypeParticipantUpdated, func(ctx context.Context, e Event) {
		received <- e
	})

	txBus := NewTransactionalBus(bus)
	txBus.Publish(ParticipantUpdatedEvent{MatchID: uuid.New(), UserID: uuid.New(), Ready: true})

	// Nothing delivered before flush
	select {
	case <-received:
		t.Fatal("event delivered before flush")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, txBus.Flush(context.Background()))

	select {
	case e := <-received:
		assert.Equal(t, EventTypeParticipantUpdated, e.Type())
	case <-time.After(2 * time.Second):
		t.Fatal("event was not flushed")
	}
}

func TestTransactionalBus_DiscardDropsPending(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 1)
	bus.Subscribe(EventTypeMatchVerified, func(ctx context.Context, e Event) {
		received <- e
	})

	txBus := NewTransactionalBus(bus)
	txBus.Publish(MatchVerifiedEvent{MatchID: uuid.New(), WinnerID: uuid.New(), Prize: 180})
	txBus.Discard()
	require.NoError(t, txBus.Flush(context.Background()))

	select {
	case <-received:
		t.Fatal("discarded event was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}
