// Package provision creates the roles and channels of a karaoke event and
// tears them down again. Every call is ensure-exists: the platform returns the
// existing resource with the same name instead of creating a second one.
package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/artemetr/discord-karaoke-bot/internal/platform"
	"github.com/rs/zerolog"
)

// Names are the configured names of the event's resources.
type Names struct {
	Category   string
	Text       string
	Voice      string
	AdminRole  string
	MemberRole string
}

// Resources are the platform IDs resolved for Names. Empty means unresolved.
type Resources struct {
	AdminRoleID    string
	MemberRoleID   string
	CategoryID     string
	TextChannelID  string
	VoiceChannelID string
}

// HasRoles reports whether both roles are resolved.
func (r Resources) HasRoles() bool {
	return r.AdminRoleID != "" && r.MemberRoleID != ""
}

// HasChannels reports whether the text and voice channels are resolved.
func (r Resources) HasChannels() bool {
	return r.TextChannelID != "" && r.VoiceChannelID != ""
}

type Provisioner struct {
	platform platform.Platform
	log      zerolog.Logger
}

func New(p platform.Platform, log zerolog.Logger) *Provisioner {
	return &Provisioner{
		platform: p,
		log:      log.With().Str("component", "provision").Logger(),
	}
}

// EnsureRoles resolves the admin and member roles, creating missing ones.
func (p *Provisioner) EnsureRoles(ctx context.Context, guildID string, names Names) (Resources, error) {
	var res Resources

	adminID, err := p.platform.EnsureRole(ctx, guildID, names.AdminRole)
	if err != nil {
		return res, fmt.Errorf("ensure admin role %q: %w", names.AdminRole, err)
	}
	res.AdminRoleID = adminID

	memberID, err := p.platform.EnsureRole(ctx, guildID, names.MemberRole)
	if err != nil {
		return res, fmt.Errorf("ensure member role %q: %w", names.MemberRole, err)
	}
	res.MemberRoleID = memberID

	p.log.Debug().Str("guild", guildID).Str("admin_role", adminID).Str("member_role", memberID).Msg("roles resolved")
	return res, nil
}

// EnsureChannels resolves the category, text and voice channels. roles must
// carry resolved role IDs: they are referenced by the channel overwrites.
func (p *Provisioner) EnsureChannels(ctx context.Context, guildID string, names Names, roles Resources) (Resources, error) {
	res := roles
	if !roles.HasRoles() {
		return res, errors.New("roles must be resolved before channels")
	}

	categoryID, err := p.platform.EnsureCategory(ctx, guildID, names.Category, nil)
	if err != nil {
		return res, fmt.Errorf("ensure category %q: %w", names.Category, err)
	}
	res.CategoryID = categoryID

	textID, err := p.platform.EnsureTextChannel(ctx, guildID, categoryID, names.Text, TextOverwrites(roles))
	if err != nil {
		return res, fmt.Errorf("ensure text channel %q: %w", names.Text, err)
	}
	res.TextChannelID = textID

	voiceID, err := p.platform.EnsureVoiceChannel(ctx, guildID, categoryID, names.Voice, VoiceOverwrites(roles))
	if err != nil {
		return res, fmt.Errorf("ensure voice channel %q: %w", names.Voice, err)
	}
	res.VoiceChannelID = voiceID

	p.log.Info().Str("guild", guildID).Str("text", textID).Str("voice", voiceID).Msg("event channels ready")
	return res, nil
}

// Teardown deletes the text and voice channels. The category is kept. A
// channel without a resolved ID is looked up by name. It returns the IDs of
// the deleted channels.
func (p *Provisioner) Teardown(ctx context.Context, guildID string, names Names, res Resources) ([]string, error) {
	var (
		deleted []string
		errs    []error
	)

	targets := []struct {
		id   string
		name string
		kind platform.ChannelKind
	}{
		{res.TextChannelID, names.Text, platform.KindGuildText},
		{res.VoiceChannelID, names.Voice, platform.KindGuildVoice},
	}

	for _, t := range targets {
		id := t.id
		if id == "" {
			found, ok, err := p.platform.FindChannel(ctx, guildID, t.name, t.kind)
			if err != nil {
				errs = append(errs, fmt.Errorf("find channel %q: %w", t.name, err))
				continue
			}
			if !ok {
				continue
			}
			id = found
		}
		if err := p.platform.DeleteChannel(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("delete channel %q: %w", t.name, err))
			continue
		}
		deleted = append(deleted, id)
	}

	p.log.Info().Str("guild", guildID).Strs("deleted", deleted).Msg("event channels removed")
	return deleted, errors.Join(errs...)
}

// TextOverwrites hides the text channel from everyone but the event roles.
func TextOverwrites(roles Resources) []platform.Overwrite {
	return []platform.Overwrite{
		{Everyone: true, Deny: platform.PermView | platform.PermConnect},
		{RoleID: roles.MemberRoleID, Allow: platform.PermView | platform.PermSend | platform.PermConnect, Deny: platform.PermSpeak},
		{RoleID: roles.AdminRoleID, Allow: platform.PermView | platform.PermSend | platform.PermConnect | platform.PermSpeak},
	}
}

// VoiceOverwrites lets everyone in but only admins speak; performers are
// unmuted one at a time.
func VoiceOverwrites(roles Resources) []platform.Overwrite {
	return []platform.Overwrite{
		{Everyone: true, Allow: platform.PermConnect, Deny: platform.PermSpeak},
		{RoleID: roles.MemberRoleID, Allow: platform.PermConnect, Deny: platform.PermSpeak},
		{RoleID: roles.AdminRoleID, Allow: platform.PermConnect | platform.PermSpeak},
	}
}
