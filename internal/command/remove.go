package command

import (
	"context"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/internal/queue"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
)

type RemoveCommand struct{ base }

func NewRemove(ev *event.Event) *RemoveCommand {
	return &RemoveCommand{base{ev: ev, key: config.RemoveMeFromQueue}}
}

func (c *RemoveCommand) Description() string { return "Leave the queue of performers" }

func (c *RemoveCommand) Access() Access          { return AccessDirect }
func (c *RemoveCommand) DeletesInvocation() bool { return false }

func (c *RemoveCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	return c.ev.Leave(ctx, mc.ChannelID, queue.Performer(mc.AuthorID), inv.Raw)
}
