package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/artemetr/discord-karaoke-bot/internal/platform"
	"github.com/artemetr/discord-karaoke-bot/pkg/throttle"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// restAPI is the part of *discordgo.Session the adapter calls.
type restAPI interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildMemberMute(guildID, userID string, mute bool, options ...discordgo.RequestOption) error
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildRoleCreate(guildID string, data *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// stateCache is the part of *discordgo.State the adapter reads.
type stateCache interface {
	Channel(channelID string) (*discordgo.Channel, error)
	VoiceState(guildID, userID string) (*discordgo.VoiceState, error)
	Member(guildID, userID string) (*discordgo.Member, error)
}

// Platform implements platform.Platform over the Discord REST API and the
// gateway state cache. Every REST call goes through the adaptive limiter.
type Platform struct {
	api     restAPI
	state   stateCache
	limiter *throttle.AdaptiveLimiter
}

var _ platform.Platform = (*Platform)(nil)

func NewPlatform(s *discordgo.Session, limiter *throttle.AdaptiveLimiter) *Platform {
	return newPlatform(s, s.State, limiter)
}

func newPlatform(api restAPI, state stateCache, limiter *throttle.AdaptiveLimiter) *Platform {
	if limiter == nil {
		limiter = NewLimiter(5, 20)
	}
	return &Platform{api: api, state: state, limiter: limiter}
}

// NewLimiter returns a limiter that understands Discord REST errors.
func NewLimiter(rps, maxRPS float64) *throttle.AdaptiveLimiter {
	return throttle.NewAdaptiveLimiter(
		rate.Limit(rps), 1, rate.Limit(maxRPS), 1, 0.5,
		throttle.WithClassifier(isOverload),
	)
}

func isOverload(err error) bool {
	var re *discordgo.RESTError
	if errors.As(err, &re) && re.Response != nil {
		code := re.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= 500
	}
	return throttle.DefaultClassifier(err)
}

// call runs fn through the limiter and tags a failure with op.
func (p *Platform) call(ctx context.Context, op string, fn func(opt discordgo.RequestOption) error) error {
	err := p.limiter.Do(ctx, func() error {
		return fn(discordgo.WithContext(ctx))
	})
	return platform.Wrap(op, err)
}

func (p *Platform) SendMessage(ctx context.Context, channelID, text string) error {
	return p.call(ctx, "send_message", func(opt discordgo.RequestOption) error {
		_, err := p.api.ChannelMessageSend(channelID, text, opt)
		return err
	})
}

func (p *Platform) SendDirect(ctx context.Context, userID, text string) error {
	var dm *discordgo.Channel
	err := p.call(ctx, "send_direct", func(opt discordgo.RequestOption) error {
		var err error
		dm, err = p.api.UserChannelCreate(userID, opt)
		return err
	})
	if err != nil {
		return err
	}
	return p.call(ctx, "send_direct", func(opt discordgo.RequestOption) error {
		_, err := p.api.ChannelMessageSend(dm.ID, text, opt)
		return err
	})
}

// SetMute server-mutes the user in the guild owning channelID.
func (p *Platform) SetMute(ctx context.Context, channelID, userID string, muted bool) error {
	ch, err := p.channel(ctx, channelID)
	if err != nil {
		return platform.Wrap("set_mute", err)
	}
	return p.call(ctx, "set_mute", func(opt discordgo.RequestOption) error {
		return p.api.GuildMemberMute(ch.GuildID, userID, muted, opt)
	})
}

func (p *Platform) EnsureRole(ctx context.Context, guildID, name string) (string, error) {
	var roles []*discordgo.Role
	err := p.call(ctx, "ensure_role", func(opt discordgo.RequestOption) error {
		var err error
		roles, err = p.api.GuildRoles(guildID, opt)
		return err
	})
	if err != nil {
		return "", err
	}
	for _, r := range roles {
		if r.Name == name {
			return r.ID, nil
		}
	}

	var role *discordgo.Role
	err = p.call(ctx, "ensure_role", func(opt discordgo.RequestOption) error {
		var err error
		role, err = p.api.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: name}, opt)
		return err
	})
	if err != nil {
		return "", err
	}
	return role.ID, nil
}

func (p *Platform) EnsureCategory(ctx context.Context, guildID, name string, ow []platform.Overwrite) (string, error) {
	return p.ensureChannel(ctx, "ensure_category", guildID, "", name, discordgo.ChannelTypeGuildCategory, ow)
}

func (p *Platform) EnsureTextChannel(ctx context.Context, guildID, parentID, name string, ow []platform.Overwrite) (string, error) {
	return p.ensureChannel(ctx, "ensure_text_channel", guildID, parentID, name, discordgo.ChannelTypeGuildText, ow)
}

func (p *Platform) EnsureVoiceChannel(ctx context.Context, guildID, parentID, name string, ow []platform.Overwrite) (string, error) {
	return p.ensureChannel(ctx, "ensure_voice_channel", guildID, parentID, name, discordgo.ChannelTypeGuildVoice, ow)
}

func (p *Platform) ensureChannel(ctx context.Context, op, guildID, parentID, name string, typ discordgo.ChannelType, ow []platform.Overwrite) (string, error) {
	id, ok, err := p.findChannel(ctx, op, guildID, name, typ)
	if err != nil || ok {
		return id, err
	}

	var ch *discordgo.Channel
	err = p.call(ctx, op, func(opt discordgo.RequestOption) error {
		var err error
		ch, err = p.api.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:                 name,
			Type:                 typ,
			ParentID:             parentID,
			PermissionOverwrites: overwrites(guildID, ow),
		}, opt)
		return err
	})
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

func (p *Platform) FindChannel(ctx context.Context, guildID, name string, kind platform.ChannelKind) (string, bool, error) {
	return p.findChannel(ctx, "find_channel", guildID, name, channelType(kind))
}

func (p *Platform) findChannel(ctx context.Context, op, guildID, name string, typ discordgo.ChannelType) (string, bool, error) {
	var channels []*discordgo.Channel
	err := p.call(ctx, op, func(opt discordgo.RequestOption) error {
		var err error
		channels, err = p.api.GuildChannels(guildID, opt)
		return err
	})
	if err != nil {
		return "", false, err
	}
	for _, ch := range channels {
		if ch.Name == name && ch.Type == typ {
			return ch.ID, true, nil
		}
	}
	return "", false, nil
}

func (p *Platform) DeleteChannel(ctx context.Context, channelID string) error {
	return p.call(ctx, "delete_channel", func(opt discordgo.RequestOption) error {
		_, err := p.api.ChannelDelete(channelID, opt)
		return err
	})
}

func (p *Platform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return p.call(ctx, "delete_message", func(opt discordgo.RequestOption) error {
		return p.api.ChannelMessageDelete(channelID, messageID, opt)
	})
}

func (p *Platform) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return p.call(ctx, "add_role", func(opt discordgo.RequestOption) error {
		return p.api.GuildMemberRoleAdd(guildID, userID, roleID, opt)
	})
}

func (p *Platform) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	return p.call(ctx, "remove_role", func(opt discordgo.RequestOption) error {
		return p.api.GuildMemberRoleRemove(guildID, userID, roleID, opt)
	})
}

// IsMemberInChannel reads the voice state cache; users without a cached
// voice state are not connected.
func (p *Platform) IsMemberInChannel(ctx context.Context, userID, channelID string) (bool, error) {
	if channelID == "" {
		return false, nil
	}
	ch, err := p.channel(ctx, channelID)
	if err != nil {
		return false, platform.Wrap("is_member_in_channel", err)
	}
	vs, err := p.state.VoiceState(ch.GuildID, userID)
	if errors.Is(err, discordgo.ErrStateNotFound) {
		return false, nil
	}
	if err != nil {
		return false, platform.Wrap("is_member_in_channel", err)
	}
	return vs.ChannelID == channelID, nil
}

func (p *Platform) CallerHasRole(ctx context.Context, guildID, userID, roleName string) (bool, error) {
	if guildID == "" {
		return false, nil
	}
	member, err := p.state.Member(guildID, userID)
	if err != nil {
		err = p.call(ctx, "caller_has_role", func(opt discordgo.RequestOption) error {
			var err error
			member, err = p.api.GuildMember(guildID, userID, opt)
			return err
		})
		if err != nil {
			return false, err
		}
	}

	var roles []*discordgo.Role
	err = p.call(ctx, "caller_has_role", func(opt discordgo.RequestOption) error {
		var err error
		roles, err = p.api.GuildRoles(guildID, opt)
		return err
	})
	if err != nil {
		return false, err
	}
	return hasRoleNamed(member, roles, roleName), nil
}

func (p *Platform) ChannelKind(ctx context.Context, channelID string) (platform.ChannelKind, error) {
	ch, err := p.channel(ctx, channelID)
	if err != nil {
		return platform.KindUnknown, platform.Wrap("channel_kind", err)
	}
	return channelKind(ch.Type), nil
}

func (p *Platform) Mention(userID string) string { return "<@" + userID + ">" }

func (p *Platform) ChannelMention(channelID string) string { return "<#" + channelID + ">" }

// channel reads the state cache first and falls back to REST.
func (p *Platform) channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if ch, err := p.state.Channel(channelID); err == nil {
		return ch, nil
	}
	var ch *discordgo.Channel
	err := p.limiter.Do(ctx, func() error {
		var err error
		ch, err = p.api.Channel(channelID, discordgo.WithContext(ctx))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", channelID, err)
	}
	return ch, nil
}
