// Package command holds the prefix commands of the karaoke bot. Each command
// parses its arguments and hands over to the event.
package command

import (
	"errors"

	"github.com/artemetr/discord-karaoke-bot/internal/platform"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
)

var ErrWrongContext = errors.New("wrong context type")

// MessageContext is the Invocation.Data of a command sent as a chat message.
type MessageContext struct {
	GuildID    string
	ChannelID  string
	MessageID  string
	AuthorID   string
	AuthorName string
	Kind       platform.ChannelKind
}

// IsDirect reports whether the message came from a direct message channel.
func (m *MessageContext) IsDirect() bool {
	return m.GuildID == "" || m.Kind == platform.KindDirect
}

// FromInvocation returns the message context of inv.
func FromInvocation(inv *cmd.Invocation) (*MessageContext, error) {
	if inv == nil {
		return nil, ErrWrongContext
	}
	mc, ok := inv.Data.(*MessageContext)
	if !ok || mc == nil {
		return nil, ErrWrongContext
	}
	return mc, nil
}

// Access says who may run a command and from where.
type Access int

const (
	// AccessDirect: anyone, from a direct message.
	AccessDirect Access = iota
	// AccessListing: anyone from a direct message, or an admin from the
	// event text channel.
	AccessListing
	// AccessAdmin: admins, from any channel of the event guild.
	AccessAdmin
	// AccessAdminEventChannel: admins, from the event text or voice channel.
	AccessAdminEventChannel
)

func (a Access) String() string {
	switch a {
	case AccessDirect:
		return "direct"
	case AccessListing:
		return "listing"
	case AccessAdmin:
		return "admin"
	case AccessAdminEventChannel:
		return "admin-event-channel"
	default:
		return "unknown"
	}
}

// Meta is implemented by every karaoke command.
type Meta interface {
	Access() Access
	// DeletesInvocation reports whether the invoking guild message is removed.
	DeletesInvocation() bool
}
