// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discord connects the reply handler to a Discord gateway session.
// It answers "CCC n" messages in any channel the bot can read and serves
// the /ping and /ccc slash commands.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/catechism-bot/internal/reply"
	"github.com/pdiddy/catechism-bot/pkg/types"
)

const source = "discord"

// invitePermissions grants send messages, embed links, read history and
// use application commands.
const invitePermissions = 2147486720

// session is the part of *discordgo.Session the handlers use.
type session interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	HeartbeatLatency() time.Duration
}

// Bot answers paragraph requests on Discord.
type Bot struct {
	handler *reply.Handler
	token   string
	sync    bool
	footer  string
	color   int
}

// New returns a Bot that answers with handler. token is the bare bot
// token.
func New(handler *reply.Handler, token string, dc types.DiscordConfig, rc types.ReplyConfig) *Bot {
	return &Bot{
		handler: handler,
		token:   token,
		sync:    dc.SyncGuilds,
		footer:  rc.Footer,
		color:   rc.Color,
	}
}

// Run opens the gateway connection and serves events until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	s, err := discordgo.New("Bot " + b.token)
	if err != nil {
		return fmt.Errorf("creating discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	s.AddHandler(b.onReady)
	s.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.handleMessage(ctx, s, s.State.User.ID, m)
	})
	s.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.handleInteraction(ctx, s, i)
	})

	if err := s.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	defer s.Close()

	<-ctx.Done()
	log.Info().Msg("closing discord session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().
		Str("user", r.User.Username).
		Str("id", r.User.ID).
		Int("guilds", len(r.Guilds)).
		Msg("logged in to discord")
	log.Info().Str("url", InviteURL(r.User.ID)).Msg("bot invite url")

	n, err := registerCommands(s, r.User.ID, "")
	if err != nil {
		log.Error().Err(err).Msg("failed to sync slash commands")
	} else {
		log.Info().Int("count", n).Msg("synced slash commands globally")
	}

	if !b.sync {
		return
	}
	for _, g := range r.Guilds {
		n, err := registerCommands(s, r.User.ID, g.ID)
		if err != nil {
			log.Warn().Err(err).Str("guild", g.ID).Msg("failed to sync slash commands to guild")
			continue
		}
		log.Info().Int("count", n).Str("guild", g.ID).Msg("synced slash commands to guild")
	}
}

func registerCommands(s *discordgo.Session, appID, guildID string) (int, error) {
	for _, cmd := range Commands {
		if _, err := s.ApplicationCommandCreate(appID, guildID, cmd); err != nil {
			return 0, fmt.Errorf("registering /%s: %w", cmd.Name, err)
		}
	}
	return len(Commands), nil
}

// handleMessage answers the first paragraph request in a message. The
// bot's own messages are ignored.
func (b *Bot) handleMessage(ctx context.Context, s session, selfID string, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == selfID {
		return
	}

	r, ok := b.handler.Handle(ctx, m.Content, source)
	if !ok {
		return
	}

	var err error
	if r.Kind == reply.KindFound {
		_, err = s.ChannelMessageSendEmbed(m.ChannelID, b.Embed(r))
	} else {
		_, err = s.ChannelMessageSend(m.ChannelID, r.Text())
	}
	if err != nil {
		log.Error().Err(err).Str("channel", m.ChannelID).Str("id", r.ID).Msg("failed to send reply")
	}
}

// Embed renders a found quote.
func (b *Bot) Embed(r reply.Reply) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "📖 " + r.Title(),
		Description: r.Body,
		Color:       b.color,
	}
	if b.footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: b.footer}
	}
	return e
}

// InviteURL is the OAuth2 link that adds the bot with the permissions it
// needs.
func InviteURL(clientID string) string {
	return fmt.Sprintf(
		"https://discord.com/api/oauth2/authorize?client_id=%s&permissions=%d&scope=bot%%20applications.commands",
		clientID, invitePermissions,
	)
}
