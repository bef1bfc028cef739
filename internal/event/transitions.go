package event

import (
	"context"
	"errors"
	"strconv"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/queue"
)

// requireActive answers event_is_not_running unless the event is active.
// The caller holds e.mu.
func (e *Event) requireActive(ctx context.Context, fx *effects, reply string) bool {
	if e.state == Active {
		return true
	}
	fx.send(ctx, reply, e.cfg.Responses.Get(config.EventIsNotRunning))
	return false
}

// Join queues the performer if it is connected to the event voice channel.
func (e *Event) Join(ctx context.Context, reply string, performer queue.Performer, comment string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fx := e.effects()
	r := e.cfg.Responses

	if !e.requireActive(ctx, fx, reply) {
		return fx.err()
	}

	in, err := e.platform.IsMemberInChannel(ctx, string(performer), e.res.VoiceChannelID)
	if err != nil {
		fx.add("is_member_in_channel", err)
		return fx.err()
	}
	if !in {
		fx.send(ctx, reply, r.Format(config.YouAreNotInEvent, "channel", e.platform.ChannelMention(e.res.VoiceChannelID)))
		return fx.err()
	}

	if index, err := e.session.IndexOf(performer); err == nil {
		fx.send(ctx, reply, r.Format(config.YouAreAlreadyInQueue, "index", strconv.Itoa(index)))
		return fx.err()
	}

	index, err := e.session.Enqueue(performer, comment)
	if err != nil {
		return err
	}
	e.metrics.SetQueueLength(e.session.Len())
	e.log.Info().Str("performer", string(performer)).Int("position", index).Msg("performer queued")

	fx.send(ctx, reply, r.Format(config.YouAreAddedInQueueWithNumber, "index", strconv.Itoa(index)))
	return fx.err()
}

// Leave takes the performer out of the queue on its own request. It is not
// logged as a performance.
func (e *Event) Leave(ctx context.Context, reply string, performer queue.Performer, comment string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fx := e.effects()
	r := e.cfg.Responses

	if !e.requireActive(ctx, fx, reply) {
		return fx.err()
	}

	removed, err := e.session.RemoveByIdentity(performer, comment)
	if errors.Is(err, queue.ErrNotQueued) {
		fx.send(ctx, reply, r.Get(config.YouAreNotInQueue))
		return fx.err()
	}
	e.metrics.PerformerSkipped()
	e.metrics.SetQueueLength(e.session.Len())
	e.log.Info().Str("performer", string(performer)).Msg("performer left the queue")

	args := e.performerArgs(queue.Entry{Performer: removed.Performer, Comment: comment}, config.SkipArtistPerformanceComment)
	fx.send(ctx, reply, r.Format(config.YourPerformanceIsSkipped, args...))
	return fx.err()
}

// StartPerformance unmutes the head of the queue, announces it and previews
// the performer on deck. The head stays queued until FinishPerformance.
func (e *Event) StartPerformance(ctx context.Context, reply string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fx := e.effects()
	r := e.cfg.Responses

	if !e.requireActive(ctx, fx, reply) {
		return fx.err()
	}

	head, ok := e.session.PeekHead()
	if !ok {
		fx.announce(ctx, r.Get(config.QueueIsEmptyForGuild))
		return fx.err()
	}

	fx.setMic(ctx, head.Performer, false)
	fx.direct(ctx, head.Performer, r.Get(config.YourPerformanceStartsNow))
	fx.announce(ctx, r.Format(config.StartArtistPerformance, e.performerArgs(head, config.ArtistComment)...))
	e.log.Info().Str("performer", string(head.Performer)).Msg("performance started")

	if next, ok := e.session.PeekSecond(); ok {
		fx.direct(ctx, next.Performer, r.Get(config.NextPerformanceIsYours))
		fx.announce(ctx, r.Format(config.NextArtistPerformance, e.performerArgs(next, config.ArtistComment)...))
	}
	return fx.err()
}

// FinishPerformance logs the head as performed, mutes it and tells the next
// performer to be ready.
func (e *Event) FinishPerformance(ctx context.Context, reply string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fx := e.effects()
	r := e.cfg.Responses

	if !e.requireActive(ctx, fx, reply) {
		return fx.err()
	}

	done, err := e.session.Dequeue()
	if errors.Is(err, queue.ErrEmpty) {
		fx.announce(ctx, r.Get(config.QueueIsEmptyForGuild))
		return fx.err()
	}
	e.metrics.PerformanceFinished()
	e.metrics.SetQueueLength(e.session.Len())
	e.log.Info().Str("performer", string(done.Performer)).Msg("performance finished")

	fx.setMic(ctx, done.Performer, true)
	fx.direct(ctx, done.Performer, r.Get(config.YourPerformanceIsFinished))
	fx.announce(ctx, r.Format(config.FinishArtistPerformance, e.performerArgs(done, config.ArtistComment)...))

	if next, ok := e.session.PeekHead(); ok {
		fx.direct(ctx, next.Performer, r.Get(config.YouHaveToBeReadyToPerform))
		fx.announce(ctx, r.Format(config.BeReadyArtistPerformance, e.performerArgs(next, config.ArtistComment)...))
	}
	return fx.err()
}

// SkipPerformance removes target without logging it and mutes it in case it
// had already been given the mic.
func (e *Event) SkipPerformance(ctx context.Context, reply string, target queue.Performer, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fx := e.effects()
	r := e.cfg.Responses

	if !e.requireActive(ctx, fx, reply) {
		return fx.err()
	}

	if _, err := e.session.RemoveByIdentity(target, reason); errors.Is(err, queue.ErrNotQueued) {
		fx.announce(ctx, r.Get(config.UserNotInQueue))
		return fx.err()
	}
	e.metrics.PerformerSkipped()
	e.metrics.SetQueueLength(e.session.Len())
	e.log.Info().Str("performer", string(target)).Str("reason", reason).Msg("performer skipped")

	args := e.performerArgs(queue.Entry{Performer: target, Comment: reason}, config.SkipArtistPerformanceComment)
	fx.setMic(ctx, target, true)
	fx.direct(ctx, target, r.Format(config.YourPerformanceIsSkipped, args...))
	fx.announce(ctx, r.Format(config.SkipArtistPerformance, args...))
	return fx.err()
}

// Pop logs the head as performed and announces it in one step.
func (e *Event) Pop(ctx context.Context, reply string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fx := e.effects()
	r := e.cfg.Responses

	if !e.requireActive(ctx, fx, reply) {
		return fx.err()
	}

	done, err := e.session.Dequeue()
	if errors.Is(err, queue.ErrEmpty) {
		fx.announce(ctx, r.Get(config.QueueIsEmptyForGuild))
		return fx.err()
	}
	e.metrics.PerformanceFinished()
	e.metrics.SetQueueLength(e.session.Len())

	fx.announce(ctx, r.Format(config.NowPerforming, e.performerArgs(done, config.ArtistComment)...))
	return fx.err()
}

// ShowQueue sends the queue listing to reply.
func (e *Event) ShowQueue(ctx context.Context, reply string, audience Audience) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fx := e.effects()
	fx.send(ctx, reply, e.renderQueue(audience))
	return fx.err()
}

// ShowLog sends the list of finished performances to reply.
func (e *Event) ShowLog(ctx context.Context, reply string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	fx := e.effects()
	fx.send(ctx, reply, e.renderLog())
	return fx.err()
}
