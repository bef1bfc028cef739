package discord

import (
	"github.com/artemetr/discord-karaoke-bot/internal/platform"
	"github.com/bwmarrin/discordgo"
)

func permissionBits(p platform.Permission) int64 {
	var bits int64
	if p.Has(platform.PermView) {
		bits |= discordgo.PermissionViewChannel
	}
	if p.Has(platform.PermSend) {
		bits |= discordgo.PermissionSendMessages
	}
	if p.Has(platform.PermConnect) {
		bits |= discordgo.PermissionVoiceConnect
	}
	if p.Has(platform.PermSpeak) {
		bits |= discordgo.PermissionVoiceSpeak
	}
	return bits
}

// overwrites maps role overwrites to Discord ones. The @everyone role shares
// its ID with the guild.
func overwrites(guildID string, ow []platform.Overwrite) []*discordgo.PermissionOverwrite {
	if len(ow) == 0 {
		return nil
	}
	out := make([]*discordgo.PermissionOverwrite, 0, len(ow))
	for _, o := range ow {
		id := o.RoleID
		if o.Everyone {
			id = guildID
		}
		out = append(out, &discordgo.PermissionOverwrite{
			ID:    id,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: permissionBits(o.Allow),
			Deny:  permissionBits(o.Deny),
		})
	}
	return out
}

func channelKind(t discordgo.ChannelType) platform.ChannelKind {
	switch t {
	case discordgo.ChannelTypeDM, discordgo.ChannelTypeGroupDM:
		return platform.KindDirect
	case discordgo.ChannelTypeGuildText:
		return platform.KindGuildText
	case discordgo.ChannelTypeGuildVoice:
		return platform.KindGuildVoice
	case discordgo.ChannelTypeGuildCategory:
		return platform.KindCategory
	default:
		return platform.KindUnknown
	}
}

func channelType(k platform.ChannelKind) discordgo.ChannelType {
	switch k {
	case platform.KindGuildVoice:
		return discordgo.ChannelTypeGuildVoice
	case platform.KindCategory:
		return discordgo.ChannelTypeGuildCategory
	case platform.KindDirect:
		return discordgo.ChannelTypeDM
	default:
		return discordgo.ChannelTypeGuildText
	}
}

func hasRoleNamed(m *discordgo.Member, roles []*discordgo.Role, name string) bool {
	if m == nil {
		return false
	}
	for _, r := range roles {
		if r.Name != name {
			continue
		}
		for _, id := range m.Roles {
			if id == r.ID {
				return true
			}
		}
	}
	return false
}
