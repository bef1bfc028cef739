package command

import (
	"context"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/internal/queue"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
)

type AppendCommand struct{ base }

func NewAppend(ev *event.Event) *AppendCommand {
	return &AppendCommand{base{ev: ev, key: config.AddMeToQueue}}
}

func (c *AppendCommand) Description() string {
	return "Join the queue of performers, optionally naming your song"
}

func (c *AppendCommand) Access() Access          { return AccessDirect }
func (c *AppendCommand) DeletesInvocation() bool { return false }

func (c *AppendCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	return c.ev.Join(ctx, mc.ChannelID, queue.Performer(mc.AuthorID), inv.Raw)
}
