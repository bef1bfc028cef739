package middleware

import (
	"context"
	"time"

	"github.com/artemetr/discord-karaoke-bot/internal/command"
	"github.com/artemetr/discord-karaoke-bot/internal/metrics"
	"github.com/artemetr/discord-karaoke-bot/internal/platform"
	"github.com/artemetr/discord-karaoke-bot/internal/storage"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WithEligibility drops commands whose access predicate denies the message.
// Denials are silent for the author; they are logged at debug level and
// counted.
func WithEligibility(gate Gate, p platform.Platform, log zerolog.Logger, m *metrics.Manager) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		meta, ok := cmd.Root(c).(command.Meta)
		if !ok {
			return c
		}
		pred := ForAccess(meta.Access(), gate, p)

		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			mc, err := command.FromInvocation(inv)
			if err != nil {
				return err
			}
			start := time.Now()
			if d := pred(ctx, mc); !d.Allow {
				log.Debug().
					Str("command", c.Name()).
					Str("user", mc.AuthorID).
					Str("channel", mc.ChannelID).
					Str("reason", d.Reason).
					Msg("command denied")
				m.ObserveCommand(c.Name(), metrics.OutcomeDenied, time.Since(start).Seconds())
				return nil
			}
			return c.Run(ctx, inv)
		})
	}
}

// Recorder stores audit records.
type Recorder interface {
	AppendCommandToHistory(guildID string, record storage.CommandHistoryRecord) error
}

// WithCommandLogger gives every run a request ID, logs it, stores an audit
// record and observes its duration. rec may be nil.
func WithCommandLogger(rec Recorder, log zerolog.Logger, m *metrics.Manager) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			mc, err := command.FromInvocation(inv)
			if err != nil {
				return err
			}

			requestID := uuid.NewString()
			l := log.With().
				Str("request_id", requestID).
				Str("command", c.Name()).
				Str("user", mc.AuthorID).
				Logger()
			ctx = l.WithContext(ctx)

			start := time.Now()
			err = c.Run(ctx, inv)
			elapsed := time.Since(start)

			outcome := metrics.OutcomeOK
			if err != nil {
				outcome = metrics.OutcomeError
				l.Error().Err(err).Dur("took", elapsed).Msg("command failed")
			} else {
				l.Info().Dur("took", elapsed).Msg("command handled")
			}
			m.ObserveCommand(c.Name(), outcome, elapsed.Seconds())

			if rec != nil {
				record := storage.CommandHistoryRecord{
					RequestID: requestID,
					ChannelID: mc.ChannelID,
					UserID:    mc.AuthorID,
					Username:  mc.AuthorName,
					Command:   c.Name(),
					Param:     inv.Raw,
					Outcome:   outcome,
					Datetime:  start,
				}
				if e := rec.AppendCommandToHistory(mc.GuildID, record); e != nil {
					l.Warn().Err(e).Msg("failed to record command")
				}
			}
			return err
		})
	}
}

// WithMessageCleanup deletes the invoking guild message of commands that ask
// for it, then runs the command. A failed deletion does not stop the command.
func WithMessageCleanup(p platform.Platform, log zerolog.Logger, m *metrics.Manager) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		meta, ok := cmd.Root(c).(command.Meta)
		if !ok || !meta.DeletesInvocation() {
			return c
		}
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			mc, err := command.FromInvocation(inv)
			if err != nil {
				return err
			}
			if !mc.IsDirect() && mc.MessageID != "" {
				if err := p.DeleteMessage(ctx, mc.ChannelID, mc.MessageID); err != nil {
					m.PlatformFailure("delete_message")
					log.Warn().Err(err).Str("message", mc.MessageID).Msg("failed to delete command message")
				}
			}
			return c.Run(ctx, inv)
		})
	}
}

// Chain is the standard middleware stack: eligibility outermost, then the
// command logger, then message cleanup.
func Chain(gate Gate, p platform.Platform, rec Recorder, log zerolog.Logger, m *metrics.Manager) cmd.Middleware {
	log = log.With().Str("component", "command").Logger()
	return cmd.Chain(
		WithMessageCleanup(p, log, m),
		WithCommandLogger(rec, log, m),
		WithEligibility(gate, p, log, m),
	)
}
