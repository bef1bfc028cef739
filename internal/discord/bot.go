// Package discord connects the karaoke event to the Discord gateway.
package discord

import (
	"context"
	"fmt"

	"github.com/artemetr/discord-karaoke-bot/internal/command"
	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/internal/platform"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Bot routes gateway events to the karaoke event.
type Bot struct {
	dg       *discordgo.Session
	platform platform.Platform
	ev       *event.Event
	registry *cmd.Registry
	log      zerolog.Logger
}

func NewBot(dg *discordgo.Session, p platform.Platform, ev *event.Event, registry *cmd.Registry, log zerolog.Logger) *Bot {
	return &Bot{
		dg:       dg,
		platform: p,
		ev:       ev,
		registry: registry,
		log:      log.With().Str("component", "discord").Logger(),
	}
}

// Run opens the gateway and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.configureIntents()
	b.dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) { b.onReady(ctx, s, r) })
	b.dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) { b.onMessageCreate(ctx, s, m) })
	b.dg.AddHandler(func(s *discordgo.Session, v *discordgo.VoiceStateUpdate) { b.onVoiceStateUpdate(ctx, v) })

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, closing the gateway")
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsAll
}

func (b *Bot) onReady(ctx context.Context, _ *discordgo.Session, r *discordgo.Ready) {
	if err := b.ev.EnsureRoles(ctx); err != nil {
		b.log.Error().Err(err).Msg("failed to ensure event roles")
	}
	name := ""
	if r.User != nil {
		name = r.User.Username
	}
	b.log.Info().Str("user", name).Int("guilds", len(r.Guilds)).Msg("discord bot is running")
}

func (b *Bot) onMessageCreate(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	b.dispatch(ctx, incoming{
		GuildID:    m.GuildID,
		ChannelID:  m.ChannelID,
		MessageID:  m.ID,
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		Content:    m.Content,
	})
}

func (b *Bot) onVoiceStateUpdate(ctx context.Context, v *discordgo.VoiceStateUpdate) {
	if v.VoiceState == nil {
		return
	}
	before := ""
	if v.BeforeUpdate != nil {
		before = v.BeforeUpdate.ChannelID
	}
	if err := b.ev.HandleVoiceState(ctx, v.UserID, before, v.ChannelID); err != nil {
		b.log.Warn().Err(err).Str("user", v.UserID).Msg("voice state update failed")
	}
}

// incoming is a chat message stripped to what dispatch needs.
type incoming struct {
	GuildID    string
	ChannelID  string
	MessageID  string
	AuthorID   string
	AuthorName string
	Content    string
}

func (b *Bot) dispatch(ctx context.Context, in incoming) {
	cfg := b.ev.Config()
	inv, ok := cmd.Parse(cfg.CommandPrefix, in.Content)
	if !ok {
		return
	}

	mc := &command.MessageContext{
		GuildID:    in.GuildID,
		ChannelID:  in.ChannelID,
		MessageID:  in.MessageID,
		AuthorID:   in.AuthorID,
		AuthorName: in.AuthorName,
		Kind:       b.channelKind(ctx, in),
	}
	inv.Data = mc

	c := b.registry.Get(inv.Name)
	if c == nil {
		b.unknown(ctx, mc, inv.Name)
		return
	}

	if err := c.Run(ctx, inv); err != nil {
		b.log.Error().Err(err).Str("command", inv.Name).Str("channel", in.ChannelID).Msg("command failed")
		if err := b.platform.SendMessage(ctx, in.ChannelID, cfg.Responses.Get(config.CommandFailed)); err != nil {
			b.log.Warn().Err(err).Msg("failed to report command failure")
		}
	}
}

// unknown answers mistyped commands in direct messages only; guild chatter
// that happens to start with the prefix is ignored.
func (b *Bot) unknown(ctx context.Context, mc *command.MessageContext, name string) {
	if !mc.IsDirect() {
		return
	}
	suggestion, ok := b.registry.Suggest(name)
	if !ok {
		return
	}
	text := b.ev.Config().Responses.Format(config.UnknownCommand, "command", suggestion)
	if err := b.platform.SendMessage(ctx, mc.ChannelID, text); err != nil {
		b.log.Warn().Err(err).Msg("failed to suggest a command")
	}
}

func (b *Bot) channelKind(ctx context.Context, in incoming) platform.ChannelKind {
	if in.GuildID == "" {
		return platform.KindDirect
	}
	kind, err := b.platform.ChannelKind(ctx, in.ChannelID)
	if err != nil {
		b.log.Debug().Err(err).Str("channel", in.ChannelID).Msg("channel kind lookup failed")
		return platform.KindGuildText
	}
	return kind
}
