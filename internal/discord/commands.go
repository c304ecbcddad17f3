// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/catechism-bot/internal/reply"
)

// Commands are the slash commands registered at startup.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Test bot responsiveness and latency",
	},
	{
		Name:        "ccc",
		Description: "Quote a paragraph of the Catechism",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "number",
				Description: "Paragraph number, e.g. 27",
				Required:    true,
			},
		},
	},
}

// PingMessage formats the reply to /ping.
func PingMessage(latency time.Duration) string {
	return fmt.Sprintf("Pong! 🏓 Latency: %dms", latency.Round(time.Millisecond).Milliseconds())
}

func (b *Bot) handleInteraction(ctx context.Context, s session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	var resp *discordgo.InteractionResponseData
	switch data.Name {
	case "ping":
		resp = &discordgo.InteractionResponseData{Content: PingMessage(s.HeartbeatLatency())}
	case "ccc":
		resp = b.quoteResponse(ctx, data)
	default:
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: resp,
	})
	if err != nil {
		log.Error().Err(err).Str("command", data.Name).Msg("failed to respond to interaction")
	}
}

func (b *Bot) quoteResponse(ctx context.Context, data discordgo.ApplicationCommandInteractionData) *discordgo.InteractionResponseData {
	var id string
	for _, opt := range data.Options {
		if opt.Name == "number" {
			id = opt.StringValue()
		}
	}

	r := b.handler.Lookup(ctx, id, source)
	if r.Kind == reply.KindFound {
		return &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{b.Embed(r)}}
	}
	return &discordgo.InteractionResponseData{Content: r.Text()}
}
