package command

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/internal/queue"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
)

var ErrNoTarget = errors.New("skip needs a member mention or ID")

type SkipCommand struct{ base }

func NewSkip(ev *event.Event) *SkipCommand {
	return &SkipCommand{base{ev: ev, key: config.SkipPerformance}}
}

func (c *SkipCommand) Description() string     { return "Skip a performer: <member> [reason]" }
func (c *SkipCommand) Access() Access          { return AccessAdminEventChannel }
func (c *SkipCommand) DeletesInvocation() bool { return true }

func (c *SkipCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	target, reason := splitTarget(inv.Raw)
	userID, ok := ParseUserID(target)
	if !ok {
		return ErrNoTarget
	}
	return c.ev.SkipPerformance(ctx, mc.ChannelID, queue.Performer(userID), reason)
}

func splitTarget(raw string) (target, rest string) {
	target, rest, _ = strings.Cut(strings.TrimSpace(raw), " ")
	return target, strings.TrimSpace(rest)
}

// ParseUserID accepts <@id>, <@!id> or a bare numeric ID.
func ParseUserID(s string) (string, bool) {
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		s = strings.TrimPrefix(s[2:len(s)-1], "!")
	}
	if s == "" {
		return "", false
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return "", false
	}
	return s, true
}
