package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/internal/platform"
	"github.com/artemetr/discord-karaoke-bot/internal/storage"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
	"github.com/dustin/go-humanize"
)

const defaultHistoryLines = 10

type HistoryStore interface {
	FetchCommandHistory(guildID string) ([]storage.CommandHistoryRecord, error)
}

// HistoryCommand shows the latest audited commands of the event guild.
type HistoryCommand struct {
	base
	platform platform.Platform
	store    HistoryStore
	now      func() time.Time
}

func NewHistory(ev *event.Event, p platform.Platform, store HistoryStore) *HistoryCommand {
	return &HistoryCommand{
		base:     base{ev: ev, key: config.ShowCommandHistory},
		platform: p,
		store:    store,
		now:      time.Now,
	}
}

func (c *HistoryCommand) Description() string     { return "Show the latest commands: [count]" }
func (c *HistoryCommand) Access() Access          { return AccessAdmin }
func (c *HistoryCommand) DeletesInvocation() bool { return true }

func (c *HistoryCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}

	n := defaultHistoryLines
	if len(inv.Args) > 0 {
		if v, err := strconv.Atoi(inv.Args[0]); err == nil && v > 0 {
			n = v
		}
	}

	records, err := c.store.FetchCommandHistory(c.ev.GuildID())
	if err != nil {
		return fmt.Errorf("fetch command history: %w", err)
	}
	if len(records) > n {
		records = records[len(records)-n:]
	}

	return c.platform.SendMessage(ctx, mc.ChannelID, c.render(records))
}

func (c *HistoryCommand) render(records []storage.CommandHistoryRecord) string {
	if len(records) == 0 {
		return c.ev.Config().Responses.Get(config.HistoryEmpty)
	}
	now := c.now()
	var b strings.Builder
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		fmt.Fprintf(&b, "%s: %s ran %s", humanize.RelTime(r.Datetime, now, "ago", "from now"), r.Username, r.Command)
		if r.Param != "" {
			fmt.Fprintf(&b, " %s", r.Param)
		}
		if r.Outcome != "" {
			fmt.Fprintf(&b, " (%s)", r.Outcome)
		}
		if i > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
