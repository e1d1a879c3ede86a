package events

import (
	"context"
	"sync"

	"arenasrv/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeMatchUpdated       EventType = "match_updated"
	EventTypeParticipantUpdated EventType = "participant_updated"
	EventTypeBalanceChange      EventType = "balance_change"
	EventTypeMatchVerified      EventType = "match_verified"
	EventTypeUserCreated        EventType = "user_created"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// MatchUpdatedEvent represents a committed change to a match row
type MatchUpdatedEvent struct {
	MatchID   uuid.UUID
	OldStatus models.MatchStatus
	NewStatus models.MatchStatus
}

func (e MatchUpdatedEvent) Type() EventType {
	return EventTypeMatchUpdated
}

// ParticipantUpdatedEvent represents a committed change to a participant row
type ParticipantUpdatedEvent struct {
	MatchID uuid.UUID
	UserID  uuid.UUID
	Ready   bool
}

func (e ParticipantUpdatedEvent) Type() EventType {
	return EventTypeParticipantUpdated
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID       uuid.UUID
	OldBalance   int64
	NewBalance   int64
	ChangeAmount int64
	Kind         models.TransactionKind
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// MatchVerifiedEvent represents an admin-confirmed result with the prize paid out
type MatchVerifiedEvent struct {
	MatchID  uuid.UUID
	WinnerID uuid.UUID
	Prize    int64
	GameType string
}

func (e MatchVerifiedEvent) Type() EventType {
	return EventTypeMatchVerified
}

// UserCreatedEvent represents a new account creation
type UserCreatedEvent struct {
	UserID         uuid.UUID
	DisplayName    string
	InitialBalance int64
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the transaction context that produced them
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
