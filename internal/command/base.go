package command

import (
	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/internal/platform"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
)

// base resolves the command name from the event configuration.
type base struct {
	ev  *event.Event
	key config.CommandKey
}

func (b base) Name() string { return b.ev.Config().Command(b.key) }

// Key is the configuration key of the command.
func (b base) Key() config.CommandKey { return b.key }

// All returns every karaoke command bound to ev. history may be nil, in
// which case the history command is left out.
func All(ev *event.Event, p platform.Platform, history HistoryStore) []cmd.Command {
	list := []cmd.Command{
		NewAppend(ev),
		NewRemove(ev),
		NewList(ev),
		NewLog(ev),
		NewBegin(ev),
		NewFinish(ev),
		NewSkip(ev),
		NewPop(ev),
		NewStart(ev),
		NewStop(ev),
	}
	if history != nil {
		list = append(list, NewHistory(ev, p, history))
	}
	return list
}
