package notifier

import (
	"context"
	"fmt"

	"arenasrv/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Announcer posts match outcomes to a Discord channel. It is optional; when
// no token is configured the rest of the system runs without it.
type Announcer struct {
	session   *discordgo.Session
	channelID string
}

// NewAnnouncer opens a Discord session and subscribes to the event bus
func NewAnnouncer(token, channelID string, bus *events.Bus) (*Announcer, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord session: %w", err)
	}

	a := &Announcer{session: session, channelID: channelID}

	bus.Subscribe(events.EventTypeMatchVerified, func(ctx context.Context, e events.Event) {
		ev := e.(events.MatchVerifiedEvent)
		a.announceResult(ev)
	})

	log.Info("Discord announcer connected")
	return a, nil
}

func (a *Announcer) announceResult(ev events.MatchVerifiedEvent) {
	msg := fmt.Sprintf("Match `%s` (%s) verified. Winner <@%s> takes %d coins!",
		ev.MatchID, ev.GameType, ev.WinnerID, ev.Prize)
	if _, err := a.session.ChannelMessageSend(a.channelID, msg); err != nil {
		log.WithError(err).WithField("matchID", ev.MatchID).Error("Failed to announce result")
	}
}

// Close shuts down the Discord session
func (a *Announcer) Close() error {
	return a.session.Close()
}
