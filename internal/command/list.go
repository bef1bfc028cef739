package command

import (
	"context"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
)

// ListCommand shows the queue. In a direct message anyone may ask; in the
// event text channel only admins may.
type ListCommand struct{ base }

func NewList(ev *event.Event) *ListCommand {
	return &ListCommand{base{ev: ev, key: config.ShowQueueOfArtists}}
}

func (c *ListCommand) Description() string { return "Show the queue of performers" }

func (c *ListCommand) Access() Access          { return AccessListing }
func (c *ListCommand) DeletesInvocation() bool { return true }

func (c *ListCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	audience := event.AudienceUser
	if !mc.IsDirect() {
		audience = event.AudienceGuild
	}
	return c.ev.ShowQueue(ctx, mc.ChannelID, audience)
}
