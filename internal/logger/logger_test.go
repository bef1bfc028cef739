package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/artemetr/discord-karaoke-bot/internal/logger"
	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("ParseLevel", t, func() {
		l, err := logger.ParseLevel("")
		So(err, ShouldBeNil)
		So(l, ShouldEqual, zerolog.InfoLevel)

		l, err = logger.ParseLevel(" DEBUG ")
		So(err, ShouldBeNil)
		So(l, ShouldEqual, zerolog.DebugLevel)

		_, err = logger.ParseLevel("loud")
		So(err, ShouldNotBeNil)
	})

	Convey("Given a logger with a file", t, func() {
		var console bytes.Buffer
		path := filepath.Join(t.TempDir(), "bot.log")
		log, closer, err := logger.New(logger.Options{Level: "info", File: path, Console: &console})
		So(err, ShouldBeNil)

		log.Debug().Msg("hidden")
		log.Info().Str("guild", "g1").Msg("event started")
		So(closer.Close(), ShouldBeNil)

		Convey("Lines below the level are dropped", func() {
			So(console.String(), ShouldNotContainSubstring, "hidden")
			So(console.String(), ShouldContainSubstring, "event started")
		})

		Convey("The file gets JSON lines", func() {
			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"message":"event started"`)
			So(string(data), ShouldContainSubstring, `"guild":"g1"`)
		})
	})
}
