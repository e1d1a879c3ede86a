package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"arenasrv/events"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// feedMessage is the wire shape pushed to websocket subscribers
type feedMessage struct {
	Type    events.EventType `json:"type"`
	Payload interface{}      `json:"payload"`
}

type feedClient struct {
	// uuid.Nil subscribes to every match
	matchID uuid.UUID
	out     chan []byte
}

// Feed fans committed domain events out to websocket subscribers. Clients
// subscribe to a single match or to the whole firehose.
type Feed struct {
	mu      sync.RWMutex
	clients map[*feedClient]struct{}
}

// NewFeed creates a feed and hooks it onto the event bus
func NewFeed(bus *events.Bus) *Feed {
	f := &Feed{clients: make(map[*feedClient]struct{})}

	bus.Subscribe(events.EventTypeMatchUpdated, func(ctx context.Context, e events.Event) {
		ev := e.(events.MatchUpdatedEvent)
		f.broadcast(ev.MatchID, feedMessage{Type: e.Type(), Payload: ev})
	})
	bus.Subscribe(events.EventTypeParticipantUpdated, func(ctx context.Context, e events.Event) {
		ev := e.(events.ParticipantUpdatedEvent)
		f.broadcast(ev.MatchID, feedMessage{Type: e.Type(), Payload: ev})
	})
	bus.Subscribe(events.EventTypeMatchVerified, func(ctx context.Context, e events.Event) {
		ev := e.(events.MatchVerifiedEvent)
		f.broadcast(ev.MatchID, feedMessage{Type: e.Type(), Payload: ev})
	})
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, e events.Event) {
		// Balance changes carry no match id, so only firehose clients see them
		f.broadcast(uuid.Nil, feedMessage{Type: e.Type(), Payload: e})
	})

	return f
}

func (f *Feed) broadcast(matchID uuid.UUID, msg feedMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.WithError(err).Error("Failed to marshal feed message")
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for client := range f.clients {
		if client.matchID != uuid.Nil && client.matchID != matchID {
			continue
		}
		select {
		case client.out <- payload:
		default:
			// Slow consumer, drop the message rather than block the bus
		}
	}
}

func (f *Feed) add(c *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[c] = struct{}{}
}

func (f *Feed) remove(c *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, c)
	close(c.out)
}

// Handler upgrades the connection and streams events until the client leaves.
// An optional ?match=<uuid> query narrows the stream to one match.
func (f *Feed) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var matchID uuid.UUID
		if raw := r.URL.Query().Get("match"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				writeBadRequest(w, "invalid match filter")
				return
			}
			matchID = parsed
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		client := &feedClient{matchID: matchID, out: make(chan []byte, 16)}
		f.add(client)
		defer f.remove(client)

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for payload := range client.out {
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
					cancel()
					return
				}
				cancel()
			}
		}()

		// Reader loop exists only to notice the client going away
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}
		}
	}
}
