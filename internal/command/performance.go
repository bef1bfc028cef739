package command

import (
	"context"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
)

// BeginCommand gives the mic to the head of the queue.
type BeginCommand struct{ base }

func NewBegin(ev *event.Event) *BeginCommand {
	return &BeginCommand{base{ev: ev, key: config.StartPerformance}}
}

func (c *BeginCommand) Description() string     { return "Start the performance at the head of the queue" }
func (c *BeginCommand) Access() Access          { return AccessAdminEventChannel }
func (c *BeginCommand) DeletesInvocation() bool { return true }

func (c *BeginCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	return c.ev.StartPerformance(ctx, mc.ChannelID)
}

// FinishCommand ends the current performance and logs it.
type FinishCommand struct{ base }

func NewFinish(ev *event.Event) *FinishCommand {
	return &FinishCommand{base{ev: ev, key: config.FinishPerformance}}
}

func (c *FinishCommand) Description() string     { return "Finish the current performance" }
func (c *FinishCommand) Access() Access          { return AccessAdminEventChannel }
func (c *FinishCommand) DeletesInvocation() bool { return true }

func (c *FinishCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	return c.ev.FinishPerformance(ctx, mc.ChannelID)
}

// PopCommand logs the head of the queue as performed in one step.
type PopCommand struct{ base }

func NewPop(ev *event.Event) *PopCommand {
	return &PopCommand{base{ev: ev, key: config.PopFromQueue}}
}

func (c *PopCommand) Description() string     { return "Take the next performer off the queue" }
func (c *PopCommand) Access() Access          { return AccessAdminEventChannel }
func (c *PopCommand) DeletesInvocation() bool { return true }

func (c *PopCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	return c.ev.Pop(ctx, mc.ChannelID)
}
