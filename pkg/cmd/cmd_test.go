package cmd_test

import (
	"context"
	"errors"
	"testing"

	"github.com/artemetr/discord-karaoke-bot/pkg/cmd"
	. "github.com/smartystreets/goconvey/convey"
)

type funcCommand struct {
	name string
	run  func(ctx context.Context, inv *cmd.Invocation) error
}

func (f *funcCommand) Name() string        { return f.name }
func (f *funcCommand) Description() string { return "" }
func (f *funcCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	return f.run(ctx, inv)
}

func noop(name string) cmd.Command {
	return &funcCommand{name: name, run: func(context.Context, *cmd.Invocation) error { return nil }}
}

func TestParse(t *testing.T) {
	Convey("Parse", t, func() {
		Convey("splits the name, fields and raw remainder", func() {
			inv, ok := cmd.Parse("?", "?skip <@42>  too  late ")
			So(ok, ShouldBeTrue)
			So(inv.Name, ShouldEqual, "skip")
			So(inv.Args, ShouldResemble, []string{"<@42>", "too", "late"})
			So(inv.Raw, ShouldEqual, "<@42>  too  late")
		})

		Convey("accepts a bare command", func() {
			inv, ok := cmd.Parse("!", "!list")
			So(ok, ShouldBeTrue)
			So(inv.Name, ShouldEqual, "list")
			So(inv.Args, ShouldBeEmpty)
			So(inv.Raw, ShouldEqual, "")
		})

		Convey("splits the name on any whitespace", func() {
			inv, ok := cmd.Parse("?", "?append\tmy song")
			So(ok, ShouldBeTrue)
			So(inv.Name, ShouldEqual, "append")
			So(inv.Raw, ShouldEqual, "my song")

			inv, ok = cmd.Parse("?", "?append\nline one\nline two")
			So(ok, ShouldBeTrue)
			So(inv.Name, ShouldEqual, "append")
			So(inv.Raw, ShouldEqual, "line one\nline two")
			So(inv.Args, ShouldResemble, []string{"line", "one", "line", "two"})
		})

		Convey("rejects text without the prefix or a name", func() {
			_, ok := cmd.Parse("?", "hello")
			So(ok, ShouldBeFalse)
			_, ok = cmd.Parse("?", "?")
			So(ok, ShouldBeFalse)
			_, ok = cmd.Parse("", "list")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given a registry with a few commands", t, func() {
		r := cmd.NewRegistry()
		for _, n := range []string{"finish", "append", "list"} {
			So(r.Register(noop(n)), ShouldBeNil)
		}

		Convey("Commands are listed by name", func() {
			So(r.Names(), ShouldResemble, []string{"append", "finish", "list"})
			So(r.Get("list"), ShouldNotBeNil)
			So(r.Get("missing"), ShouldBeNil)
		})

		Convey("A name cannot be registered twice", func() {
			So(errors.Is(r.Register(noop("list")), cmd.ErrDuplicate), ShouldBeTrue)
		})

		Convey("Mistyped names get a suggestion", func() {
			s, ok := r.Suggest("fnsh")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "finish")

			_, ok = r.Suggest("zzz")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Middleware wraps commands", t, func() {
		var order []string
		tag := func(name string) cmd.Middleware {
			return func(c cmd.Command) cmd.Command {
				return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
					order = append(order, name)
					return c.Run(ctx, inv)
				})
			}
		}
		base := noop("list")
		wrapped := cmd.Apply(base, tag("inner"), tag("outer"))

		So(wrapped.Run(context.Background(), &cmd.Invocation{}), ShouldBeNil)
		So(order, ShouldResemble, []string{"outer", "inner"})
		So(wrapped.Name(), ShouldEqual, "list")
		So(cmd.Root(wrapped), ShouldEqual, base)
	})
}
