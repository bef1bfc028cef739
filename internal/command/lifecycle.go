package command

import (
	"context"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
)

type StartCommand struct{ base }

func NewStart(ev *event.Event) *StartCommand {
	return &StartCommand{base{ev: ev, key: config.Start}}
}

func (c *StartCommand) Description() string     { return "Create the event channels and open the queue" }
func (c *StartCommand) Access() Access          { return AccessAdmin }
func (c *StartCommand) DeletesInvocation() bool { return false }

func (c *StartCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	return c.ev.StartEvent(ctx, mc.ChannelID)
}

// StopCommand clears the queue and removes the event channels. Its message is
// kept: it may live in a channel that is about to be deleted anyway.
type StopCommand struct{ base }

func NewStop(ev *event.Event) *StopCommand {
	return &StopCommand{base{ev: ev, key: config.Stop}}
}

func (c *StopCommand) Description() string     { return "Stop the event and remove its channels" }
func (c *StopCommand) Access() Access          { return AccessAdmin }
func (c *StopCommand) DeletesInvocation() bool { return false }

func (c *StopCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	return c.ev.StopEvent(ctx, mc.ChannelID)
}
