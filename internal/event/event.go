// Package event runs one karaoke event: it owns the performer queue, decides
// which platform calls each command triggers, and serializes commands so that
// no two of them interleave on the same queue.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/metrics"
	"github.com/artemetr/discord-karaoke-bot/internal/platform"
	"github.com/artemetr/discord-karaoke-bot/internal/provision"
	"github.com/artemetr/discord-karaoke-bot/internal/queue"
	"github.com/rs/zerolog"
)

type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Audience selects the "empty queue" wording of a queue listing.
type Audience int

const (
	AudienceUser Audience = iota
	AudienceGuild
)

// Event is safe for concurrent use. Every transition holds the event lock
// from the first queue access to the last platform call.
type Event struct {
	mu sync.Mutex

	cfg         *config.Event
	platform    platform.Platform
	provisioner *provision.Provisioner
	session     *queue.Session
	state       State
	res         provision.Resources

	log     zerolog.Logger
	metrics *metrics.Manager
}

type Option func(*Event)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Event) { e.log = l }
}

func WithMetrics(m *metrics.Manager) Option {
	return func(e *Event) { e.metrics = m }
}

func WithSession(s *queue.Session) Option {
	return func(e *Event) { e.session = s }
}

func New(cfg *config.Event, p platform.Platform, opts ...Option) *Event {
	e := &Event{
		cfg:      cfg,
		platform: p,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.session == nil {
		e.session = queue.NewSession()
	}
	e.log = e.log.With().Str("component", "event").Str("guild", cfg.Guild.ID).Logger()
	e.provisioner = provision.New(p, e.log)
	return e
}

func (e *Event) Config() *config.Event { return e.cfg }

func (e *Event) GuildID() string { return e.cfg.Guild.ID }

// AdminRole is the name of the role allowed to run the event.
func (e *Event) AdminRole() string { return e.cfg.Roles.Admin.Name }

func (e *Event) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Resources returns the resolved role and channel IDs.
func (e *Event) Resources() provision.Resources {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.res
}

// IsEventChannel reports whether channelID is the event text or voice channel.
func (e *Event) IsEventChannel(channelID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return channelID != "" && (channelID == e.res.TextChannelID || channelID == e.res.VoiceChannelID)
}

// IsEventTextChannel reports whether channelID is the event text channel.
func (e *Event) IsEventTextChannel(channelID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return channelID != "" && channelID == e.res.TextChannelID
}

// Queue returns a snapshot of the queue.
func (e *Event) Queue() []queue.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Entries()
}

// History returns a snapshot of the performance log.
func (e *Event) History() []queue.LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.History()
}

func (e *Event) names() provision.Names {
	return provision.Names{
		Category:   e.cfg.Guild.Category.Name,
		Text:       e.cfg.Guild.Category.Channels.Text.Name,
		Voice:      e.cfg.Guild.Category.Channels.Voice.Name,
		AdminRole:  e.cfg.Roles.Admin.Name,
		MemberRole: e.cfg.Roles.Member.Name,
	}
}

// effects collects platform failures of one transition. A failed side effect
// never undoes the queue mutation that preceded it.
type effects struct {
	e    *Event
	errs []error
}

func (e *Event) effects() *effects { return &effects{e: e} }

func (f *effects) add(op string, err error) {
	if err == nil {
		return
	}
	var ce *platform.CallError
	if errors.As(err, &ce) {
		op = ce.Op
	}
	f.e.metrics.PlatformFailure(op)
	f.e.log.Warn().Err(err).Str("op", op).Msg("platform call failed")
	f.errs = append(f.errs, err)
}

func (f *effects) err() error { return errors.Join(f.errs...) }

func (f *effects) send(ctx context.Context, channelID, text string) {
	if channelID == "" {
		f.e.log.Warn().Str("text", text).Msg("no channel to send to")
		return
	}
	f.add("send_message", f.e.platform.SendMessage(ctx, channelID, text))
}

func (f *effects) announce(ctx context.Context, text string) {
	f.send(ctx, f.e.res.TextChannelID, text)
}

func (f *effects) direct(ctx context.Context, userID queue.Performer, text string) {
	f.add("send_direct", f.e.platform.SendDirect(ctx, string(userID), text))
}

// setMic mutes or unmutes a performer connected to the event voice channel.
// Performers elsewhere are left alone.
func (f *effects) setMic(ctx context.Context, userID queue.Performer, muted bool) {
	voice := f.e.res.VoiceChannelID
	if voice == "" {
		return
	}
	in, err := f.e.platform.IsMemberInChannel(ctx, string(userID), voice)
	if err != nil {
		f.add("is_member_in_channel", err)
		return
	}
	if !in {
		return
	}
	f.add("set_mute", f.e.platform.SetMute(ctx, voice, string(userID), muted))
}
