package provision_test

import (
	"context"
	"testing"

	"github.com/artemetr/discord-karaoke-bot/internal/platform"
	"github.com/artemetr/discord-karaoke-bot/internal/platform/platformtest"
	"github.com/artemetr/discord-karaoke-bot/internal/provision"
	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

var names = provision.Names{
	Category:   "karaoke",
	Text:       "karaoke-chat",
	Voice:      "Karaoke",
	AdminRole:  "karaoke-admin",
	MemberRole: "karaoke-member",
}

func TestProvisioner(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty guild", t, func() {
		fake := platformtest.New()
		p := provision.New(fake, zerolog.Nop())

		Convey("When roles and channels are ensured twice", func() {
			roles, err := p.EnsureRoles(ctx, "g1", names)
			So(err, ShouldBeNil)
			first, err := p.EnsureChannels(ctx, "g1", names, roles)
			So(err, ShouldBeNil)

			rolesAgain, err := p.EnsureRoles(ctx, "g1", names)
			So(err, ShouldBeNil)
			second, err := p.EnsureChannels(ctx, "g1", names, rolesAgain)
			So(err, ShouldBeNil)

			Convey("Then each resource exists once and IDs are stable", func() {
				So(fake.Created, ShouldEqual, 5)
				So(second, ShouldResemble, first)
				So(first.HasRoles(), ShouldBeTrue)
				So(first.HasChannels(), ShouldBeTrue)
			})

			Convey("Then the channels live in the category with overwrites", func() {
				text := fake.Channels[first.TextChannelID]
				voice := fake.Channels[first.VoiceChannelID]
				So(text.ParentID, ShouldEqual, first.CategoryID)
				So(voice.ParentID, ShouldEqual, first.CategoryID)
				So(text.Kind, ShouldEqual, platform.KindGuildText)
				So(voice.Kind, ShouldEqual, platform.KindGuildVoice)
				So(text.Overwrites, ShouldResemble, provision.TextOverwrites(first))
				So(voice.Overwrites, ShouldResemble, provision.VoiceOverwrites(first))
			})
		})

		Convey("When channels are ensured without roles", func() {
			_, err := p.EnsureChannels(ctx, "g1", names, provision.Resources{})
			So(err, ShouldNotBeNil)
			So(fake.Created, ShouldEqual, 0)
		})

		Convey("When role creation fails", func() {
			fake.Fail["ensure_role"] = true
			_, err := p.EnsureRoles(ctx, "g1", names)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given provisioned channels", t, func() {
		fake := platformtest.New()
		p := provision.New(fake, zerolog.Nop())
		roles, _ := p.EnsureRoles(ctx, "g1", names)
		res, _ := p.EnsureChannels(ctx, "g1", names, roles)

		Convey("Teardown with resolved IDs deletes text and voice only", func() {
			deleted, err := p.Teardown(ctx, "g1", names, res)
			So(err, ShouldBeNil)
			So(deleted, ShouldResemble, []string{res.TextChannelID, res.VoiceChannelID})
			_, categoryLeft := fake.Channels[res.CategoryID]
			So(categoryLeft, ShouldBeTrue)
		})

		Convey("Teardown without IDs finds the channels by name", func() {
			deleted, err := p.Teardown(ctx, "g1", names, provision.Resources{})
			So(err, ShouldBeNil)
			So(deleted, ShouldHaveLength, 2)
			_, ok := fake.ChannelByName("g1", names.Text)
			So(ok, ShouldBeFalse)
		})

		Convey("Teardown reports failures and keeps going", func() {
			fake.Fail["delete_channel"] = true
			deleted, err := p.Teardown(ctx, "g1", names, res)
			So(err, ShouldNotBeNil)
			So(deleted, ShouldBeEmpty)
		})
	})

	Convey("Teardown of a guild without event channels is a no-op", t, func() {
		fake := platformtest.New()
		p := provision.New(fake, zerolog.Nop())
		deleted, err := p.Teardown(ctx, "g1", names, provision.Resources{})
		So(err, ShouldBeNil)
		So(deleted, ShouldBeEmpty)
	})
}
