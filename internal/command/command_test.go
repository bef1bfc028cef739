package command

import (
	"context"
	"testing"
	"time"

	"github.com/artemetr/discord-karaoke-bot/internal/config"
	"github.com/artemetr/discord-karaoke-bot/internal/event"
	"github.com/artemetr/discord-karaoke-bot/internal/platform"
	"github.com/artemetr/discord-karaoke-bot/internal/platform/platformtest"
	"github.com/artemetr/discord-karaoke-bot/internal/storage"
	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
	. "github.com/smartystreets/goconvey/convey"
)

type staticHistory []storage.CommandHistoryRecord

func (h staticHistory) FetchCommandHistory(string) ([]storage.CommandHistoryRecord, error) {
	return h, nil
}

func newEvent(fake *platformtest.Fake) *event.Event {
	cfg := config.DefaultEvent()
	cfg.Guild.ID = "g1"
	cfg.Commands = map[string]string{string(config.AddMeToQueue): "sing"}
	return event.New(cfg, fake)
}

func TestParseUserID(t *testing.T) {
	Convey("ParseUserID", t, func() {
		for in, want := range map[string]string{
			"<@123>":  "123",
			"<@!456>": "456",
			"789":     "789",
		} {
			got, ok := ParseUserID(in)
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, want)
		}
		for _, in := range []string{"", "<@>", "<@abc>", "bob", "<#123>"} {
			_, ok := ParseUserID(in)
			So(ok, ShouldBeFalse)
		}
	})

	Convey("splitTarget keeps the whole reason", t, func() {
		target, reason := splitTarget("<@1>  sang  off key ")
		So(target, ShouldEqual, "<@1>")
		So(reason, ShouldEqual, "sang  off key")
	})
}

func TestCommands(t *testing.T) {
	ctx := context.Background()

	Convey("Given the commands of an event", t, func() {
		fake := platformtest.New()
		ev := newEvent(fake)
		all := All(ev, fake, staticHistory{})

		Convey("Names come from the configuration", func() {
			names := make([]string, 0, len(all))
			for _, c := range all {
				names = append(names, c.Name())
			}
			So(names, ShouldContain, "sing")
			So(names, ShouldNotContain, "append")
			So(names, ShouldContain, "history")
			So(All(ev, fake, nil), ShouldHaveLength, len(all)-1)
		})

		Convey("Every command declares its access", func() {
			for _, c := range all {
				_, ok := c.(Meta)
				So(ok, ShouldBeTrue)
			}
			So(NewAppend(ev).Access(), ShouldEqual, AccessDirect)
			So(NewList(ev).Access(), ShouldEqual, AccessListing)
			So(NewStop(ev).DeletesInvocation(), ShouldBeFalse)
			So(NewSkip(ev).Access(), ShouldEqual, AccessAdminEventChannel)
		})

		Convey("A command without a message context fails", func() {
			err := NewLog(ev).Run(ctx, &cmd.Invocation{})
			So(err, ShouldEqual, ErrWrongContext)
		})

		Convey("The list answers a direct message with the user wording", func() {
			fake.AddDirectChannel("dm")
			inv := &cmd.Invocation{Data: &MessageContext{ChannelID: "dm", AuthorID: "A", Kind: platform.KindDirect}}
			So(NewList(ev).Run(ctx, inv), ShouldBeNil)
			So(fake.MessagesTo("dm"), ShouldResemble, []string{"The queue is empty. You can be the first!"})
		})

		Convey("Skip without a target is rejected", func() {
			inv := &cmd.Invocation{Raw: "", Data: &MessageContext{GuildID: "g1", ChannelID: "c"}}
			So(NewSkip(ev).Run(ctx, inv), ShouldEqual, ErrNoTarget)
		})
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 21, 0, 0, 0, time.UTC)

	Convey("Given recorded commands", t, func() {
		fake := platformtest.New()
		records := staticHistory{
			{Username: "ann", Command: "start", Outcome: "ok", Datetime: now.Add(-2 * time.Hour)},
			{Username: "ann", Command: "skip", Param: "<@1> late", Outcome: "ok", Datetime: now.Add(-10 * time.Minute)},
			{Username: "bob", Command: "finish", Outcome: "error", Datetime: now.Add(-30 * time.Second)},
		}
		h := NewHistory(newEvent(fake), fake, records)
		h.now = func() time.Time { return now }
		mc := &MessageContext{GuildID: "g1", ChannelID: "c"}

		Convey("The newest come first with relative times", func() {
			So(h.Run(ctx, &cmd.Invocation{Data: mc}), ShouldBeNil)
			So(fake.MessagesTo("c"), ShouldResemble, []string{
				"30 seconds ago: bob ran finish (error)\n" +
					"10 minutes ago: ann ran skip <@1> late (ok)\n" +
					"2 hours ago: ann ran start (ok)",
			})
		})

		Convey("The count argument limits the lines", func() {
			So(h.Run(ctx, &cmd.Invocation{Args: []string{"1"}, Data: mc}), ShouldBeNil)
			So(fake.MessagesTo("c"), ShouldResemble, []string{"30 seconds ago: bob ran finish (error)"})
		})

		Convey("An empty history says so", func() {
			empty := NewHistory(newEvent(fake), fake, staticHistory{})
			So(empty.Run(ctx, &cmd.Invocation{Data: mc}), ShouldBeNil)
			So(fake.MessagesTo("c"), ShouldResemble, []string{"No commands recorded yet."})
		})

		Convey("The empty history wording is configurable", func() {
			ev := newEvent(fake)
			ev.Config().Responses = config.Responses{string(config.HistoryEmpty): "Quiet night."}
			empty := NewHistory(ev, fake, staticHistory{})
			So(empty.Run(ctx, &cmd.Invocation{Data: mc}), ShouldBeNil)
			So(fake.MessagesTo("c"), ShouldResemble, []string{"Quiet night."})
		})
	})
}
