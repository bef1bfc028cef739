package discord

import (
	"context"
	"testing"

	"github.com/artemetr/discord-karaoke-bot/internal/command"
	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/internal/metrics"
	"github.com/artemetr/discord-karaoke-bot/internal/middleware"
	"github.com/artemetr/discord-karaoke-bot/internal/platform/platformtest"
	"github.com/artemetr/discord-karaoke-bot/internal/storage"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

type nopRecorder struct{}

func (nopRecorder) AppendCommandToHistory(string, storage.CommandHistoryRecord) error { return nil }

func newTestBot(fake *platformtest.Fake) (*Bot, *event.Event) {
	cfg := config.DefaultEvent()
	cfg.Guild.ID = "g1"
	m := metrics.NewManager()
	ev := event.New(cfg, fake, event.WithMetrics(m))

	chain := middleware.Chain(ev, fake, nopRecorder{}, zerolog.Nop(), m)
	registry := cmd.NewRegistry()
	for _, c := range command.All(ev, fake, nil) {
		if err := registry.Register(chain(c)); err != nil {
			panic(err)
		}
	}
	return NewBot(nil, fake, ev, registry, zerolog.Nop()), ev
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bot for a running event", t, func() {
		fake := platformtest.New()
		fake.AddDirectChannel("dm")
		fake.AddTextChannel("g1", "general", "general")
		b, ev := newTestBot(fake)
		So(ev.StartEvent(ctx, "general"), ShouldBeNil)
		res := ev.Resources()
		fake.GrantRole("g1", "admin", res.AdminRoleID)
		sent := len(fake.Messages)

		Convey("Messages without the prefix are ignored", func() {
			b.dispatch(ctx, incoming{ChannelID: "dm", AuthorID: "A", Content: "hello"})
			So(len(fake.Messages), ShouldEqual, sent)
		})

		Convey("A mistyped command in a DM gets a suggestion", func() {
			b.dispatch(ctx, incoming{ChannelID: "dm", AuthorID: "A", Content: "?lst"})
			So(fake.MessagesTo("dm"), ShouldResemble, []string{"Unknown command. Did you mean list?"})
		})

		Convey("A mistyped command in the guild is ignored", func() {
			b.dispatch(ctx, incoming{GuildID: "g1", ChannelID: "general", AuthorID: "A", Content: "?lst"})
			So(len(fake.Messages), ShouldEqual, sent)
		})

		Convey("A joining performer is queued", func() {
			fake.JoinVoice("A", res.VoiceChannelID)
			b.dispatch(ctx, incoming{ChannelID: "dm", AuthorID: "A", Content: "?append my song"})
			So(ev.Queue(), ShouldHaveLength, 1)
			So(ev.Queue()[0].Comment, ShouldEqual, "my song")
		})

		Convey("A failing command is reported in its channel", func() {
			b.dispatch(ctx, incoming{GuildID: "g1", ChannelID: res.TextChannelID, MessageID: "m1", AuthorID: "admin", Content: "?skip"})
			So(fake.MessagesTo(res.TextChannelID), ShouldResemble, []string{"Something went wrong while processing the command."})
		})
	})
}
