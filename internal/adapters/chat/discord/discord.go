// Package discord connects the tracker to a Discord channel: it streams
// message events from the gateway and posts plain-text replies
package discord

import (
	"context"
	"time"

	"campaigntracker/internal/platform/config"
	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/logger"

	"github.com/bwmarrin/discordgo"
)

// Event is an inbound chat message as seen by the gateway
type Event struct {
	ID          string
	ChannelID   string
	Content     string
	AuthorName  string
	AuthorIsBot bool
	At          time.Time
}

// Options configures the gateway session
type Options struct {
	Token     string
	ChannelID string
}

// FromConfig reads TOKEN and CHANNEL_ID, both required
func FromConfig(cfg config.Conf) Options {
	return Options{
		Token:     cfg.MustString("TOKEN"),
		ChannelID: cfg.MustString("CHANNEL_ID"),
	}
}

// session is the subset of *discordgo.Session the client drives
type session interface {
	AddHandler(handler any) func()
	Open() error
	Close() error
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Client is a bot session bound to one intake channel
type Client struct {
	s         session
	channelID string
	log       logger.Logger
}

// New creates a bot session; no connection is made until Run
func New(o Options) (*Client, error) {
	s, err := discordgo.New("Bot " + o.Token)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "discord session failed")
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	return newClient(s, o.ChannelID), nil
}

func newClient(s session, channelID string) *Client {
	return &Client{s: s, channelID: channelID, log: *logger.Named("discord")}
}

// ChannelID is the intake channel this client was configured with
func (c *Client) ChannelID() string { return c.channelID }

// Run opens the gateway and calls fn for every message until ctx is done;
// fn runs on the gateway goroutine and must not block
func (c *Client) Run(ctx context.Context, fn func(Event)) error {
	removeReady := c.s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		if r.User != nil {
			c.log.Info().Str("user", r.User.Username).Msg("discord logged in")
		}
	})
	removeMsg := c.s.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if ev, ok := toEvent(m); ok {
			fn(ev)
		}
	})
	defer removeReady()
	defer removeMsg()

	if err := c.s.Open(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "discord gateway open failed")
	}
	<-ctx.Done()
	if err := c.s.Close(); err != nil {
		c.log.Warn().Err(err).Msg("discord close failed")
	}
	return nil
}

// Post sends text to channelID
func (c *Client) Post(ctx context.Context, channelID, text string) error {
	if _, err := c.s.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx)); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "discord post failed")
	}
	return nil
}

// toEvent flattens a gateway message; messages without an author are dropped
func toEvent(m *discordgo.MessageCreate) (Event, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return Event{}, false
	}
	at := m.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	return Event{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		Content:     m.Content,
		AuthorName:  m.Author.Username,
		AuthorIsBot: m.Author.Bot,
		At:          at.UTC(),
	}, true
}
