package event

import "context"

// HandleVoiceState keeps the member role in line with presence in the event
// voice channel: connecting grants it, leaving revokes it. before and after
// are the channel IDs around the change, "" meaning disconnected. Nothing
// happens while the event is idle.
func (e *Event) HandleVoiceState(ctx context.Context, userID, before, after string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	voice := e.res.VoiceChannelID
	if e.state != Active || voice == "" || e.res.MemberRoleID == "" || before == after {
		return nil
	}

	fx := e.effects()
	switch {
	case after == voice:
		fx.add("add_role", e.platform.AddRole(ctx, e.GuildID(), userID, e.res.MemberRoleID))
		e.log.Debug().Str("user", userID).Msg("member role granted")
	case before == voice:
		fx.add("remove_role", e.platform.RemoveRole(ctx, e.GuildID(), userID, e.res.MemberRoleID))
		e.log.Debug().Str("user", userID).Msg("member role revoked")
	}
	return fx.err()
}
