// Package platform describes what the karaoke event needs from the chat
// platform. Adapters (internal/discord) implement it; the event logic only
// decides which calls to make and in which order.
package platform

import (
	"context"
	"fmt"
)

// ChannelKind classifies the channel a command was sent from.
type ChannelKind int

const (
	KindUnknown ChannelKind = iota
	KindDirect
	KindGuildText
	KindGuildVoice
	KindCategory
)

func (k ChannelKind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindGuildText:
		return "guild-text"
	case KindGuildVoice:
		return "guild-voice"
	case KindCategory:
		return "category"
	default:
		return "unknown"
	}
}

// Permission is a platform-neutral set of channel permissions.
type Permission uint8

const (
	PermView Permission = 1 << iota
	PermSend
	PermConnect
	PermSpeak
)

func (p Permission) Has(q Permission) bool { return p&q == q }

// Overwrite grants and denies permissions on a channel for a role.
// Everyone targets the guild's default role; RoleID is ignored then.
type Overwrite struct {
	RoleID   string
	Everyone bool
	Allow    Permission
	Deny     Permission
}

type Platform interface {
	SendMessage(ctx context.Context, channelID, text string) error
	SendDirect(ctx context.Context, userID, text string) error
	SetMute(ctx context.Context, channelID, userID string, muted bool) error

	EnsureRole(ctx context.Context, guildID, name string) (string, error)
	EnsureCategory(ctx context.Context, guildID, name string, overwrites []Overwrite) (string, error)
	EnsureTextChannel(ctx context.Context, guildID, parentID, name string, overwrites []Overwrite) (string, error)
	EnsureVoiceChannel(ctx context.Context, guildID, parentID, name string, overwrites []Overwrite) (string, error)
	FindChannel(ctx context.Context, guildID, name string, kind ChannelKind) (string, bool, error)
	DeleteChannel(ctx context.Context, channelID string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error

	IsMemberInChannel(ctx context.Context, userID, channelID string) (bool, error)
	CallerHasRole(ctx context.Context, guildID, userID, roleName string) (bool, error)
	ChannelKind(ctx context.Context, channelID string) (ChannelKind, error)

	Mention(userID string) string
	ChannelMention(channelID string) string
}

// CallError wraps a failed call to the platform.
type CallError struct {
	Op  string
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("platform %s: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err, otherwise a *CallError for op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &CallError{Op: op, Err: err}
}
