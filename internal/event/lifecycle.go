package event

import (
	"context"
	"slices"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
)

// EnsureRoles resolves the admin and member roles, creating the missing ones.
// It runs when the gateway session becomes ready and again on StartEvent.
func (e *Event) EnsureRoles(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fx := e.effects()
	e.ensureRoles(ctx, fx)
	return fx.err()
}

func (e *Event) ensureRoles(ctx context.Context, fx *effects) bool {
	roles, err := e.provisioner.EnsureRoles(ctx, e.GuildID(), e.names())
	if err != nil {
		fx.add("ensure_role", err)
		return false
	}
	e.res.AdminRoleID = roles.AdminRoleID
	e.res.MemberRoleID = roles.MemberRoleID
	return true
}

// StartEvent provisions the event category and channels and switches the
// event to Active. Starting a running event re-resolves its resources and
// announces again; nothing is created twice.
func (e *Event) StartEvent(ctx context.Context, reply string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fx := e.effects()

	if !e.ensureRoles(ctx, fx) {
		return fx.err()
	}
	res, err := e.provisioner.EnsureChannels(ctx, e.GuildID(), e.names(), e.res)
	if err != nil {
		fx.add("ensure_channel", err)
		return fx.err()
	}
	e.res = res
	e.state = Active
	e.metrics.SetEventActive(true)
	e.log.Info().Str("text", res.TextChannelID).Str("voice", res.VoiceChannelID).Msg("event started")

	fx.send(ctx, reply, e.cfg.Responses.Get(config.EventHasBeenStarted))
	return fx.err()
}

// StopEvent clears the session, deletes the event text and voice channels and
// switches the event to Idle. The roles are kept. The stop notice is skipped
// when the invoking channel was one of the deleted channels.
func (e *Event) StopEvent(ctx context.Context, reply string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fx := e.effects()

	e.session.Reset()
	e.metrics.SetQueueLength(0)

	deleted, err := e.provisioner.Teardown(ctx, e.GuildID(), e.names(), e.res)
	if err != nil {
		fx.add("delete_channel", err)
	}
	e.res.CategoryID = ""
	e.res.TextChannelID = ""
	e.res.VoiceChannelID = ""
	e.state = Idle
	e.metrics.SetEventActive(false)
	e.log.Info().Strs("deleted", deleted).Msg("event stopped")

	if !slices.Contains(deleted, reply) {
		fx.send(ctx, reply, e.cfg.Responses.Get(config.EventHasBeenStopped))
	}
	return fx.err()
}
