package command

import (
	"context"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
)

type LogCommand struct{ base }

func NewLog(ev *event.Event) *LogCommand {
	return &LogCommand{base{ev: ev, key: config.ShowLogOfArtists}}
}

func (c *LogCommand) Description() string { return "Show who has performed so far" }

func (c *LogCommand) Access() Access          { return AccessAdmin }
func (c *LogCommand) DeletesInvocation() bool { return true }

func (c *LogCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	return c.ev.ShowLog(ctx, mc.ChannelID)
}
