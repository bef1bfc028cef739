// Package middleware gates and observes karaoke commands: eligibility
// predicates decide whether a command may run, the command logger audits the
// ones that did.
package middleware

import (
	"context"
	"strings"

	"github.com/artemetr/discord-karaoke-bot/internal/command"
	"github.com/artemetr/discord-karaoke-bot/internal/platform"
)

// Decision is the verdict of a predicate. Reason explains a denial.
type Decision struct {
	Allow  bool
	Reason string
}

func allow() Decision { return Decision{Allow: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

type Predicate func(ctx context.Context, mc *command.MessageContext) Decision

// AllOf allows when every predicate allows. The first denial wins.
func AllOf(ps ...Predicate) Predicate {
	return func(ctx context.Context, mc *command.MessageContext) Decision {
		for _, p := range ps {
			if d := p(ctx, mc); !d.Allow {
				return d
			}
		}
		return allow()
	}
}

// AnyOf allows when one predicate allows.
func AnyOf(ps ...Predicate) Predicate {
	return func(ctx context.Context, mc *command.MessageContext) Decision {
		reasons := make([]string, 0, len(ps))
		for _, p := range ps {
			d := p(ctx, mc)
			if d.Allow {
				return d
			}
			reasons = append(reasons, d.Reason)
		}
		return deny(strings.Join(reasons, "; "))
	}
}

func DirectOnly() Predicate {
	return func(_ context.Context, mc *command.MessageContext) Decision {
		if !mc.IsDirect() {
			return deny("direct messages only")
		}
		return allow()
	}
}

func GuildOnly(guildID string) Predicate {
	return func(_ context.Context, mc *command.MessageContext) Decision {
		if mc.IsDirect() {
			return deny("guild only")
		}
		if mc.GuildID != guildID {
			return deny("not the event guild")
		}
		return allow()
	}
}

// EventChannels tells the event channels apart.
type EventChannels interface {
	IsEventChannel(channelID string) bool
	IsEventTextChannel(channelID string) bool
}

// InEventChannels allows the event text and voice channels.
func InEventChannels(ev EventChannels) Predicate {
	return func(_ context.Context, mc *command.MessageContext) Decision {
		if !ev.IsEventChannel(mc.ChannelID) {
			return deny("not an event channel")
		}
		return allow()
	}
}

func InEventTextChannel(ev EventChannels) Predicate {
	return func(_ context.Context, mc *command.MessageContext) Decision {
		if !ev.IsEventTextChannel(mc.ChannelID) {
			return deny("not the event text channel")
		}
		return allow()
	}
}

// HasRole allows authors holding roleName in the guild the message came from.
func HasRole(p platform.Platform, roleName string) Predicate {
	return func(ctx context.Context, mc *command.MessageContext) Decision {
		ok, err := p.CallerHasRole(ctx, mc.GuildID, mc.AuthorID, roleName)
		if err != nil {
			return deny("role lookup failed: " + err.Error())
		}
		if !ok {
			return deny("missing role " + roleName)
		}
		return allow()
	}
}

// Gate is the event a command runs against.
type Gate interface {
	EventChannels
	GuildID() string
	AdminRole() string
}

// ForAccess builds the predicate of an access level.
func ForAccess(a command.Access, gate Gate, p platform.Platform) Predicate {
	admin := AllOf(GuildOnly(gate.GuildID()), HasRole(p, gate.AdminRole()))
	switch a {
	case command.AccessDirect:
		return DirectOnly()
	case command.AccessListing:
		return AnyOf(DirectOnly(), AllOf(GuildOnly(gate.GuildID()), InEventTextChannel(gate), HasRole(p, gate.AdminRole())))
	case command.AccessAdmin:
		return admin
	case command.AccessAdminEventChannel:
		return AllOf(GuildOnly(gate.GuildID()), InEventChannels(gate), HasRole(p, gate.AdminRole()))
	default:
		return func(context.Context, *command.MessageContext) Decision { return deny("unknown access " + a.String()) }
	}
}
