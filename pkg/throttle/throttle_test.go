package throttle_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/artemetr/discord-karaoke-bot/pkg/throttle"
	. "github.com/smartystreets/goconvey/convey"
)

type statusError int

func (s statusError) Error() string   { return fmt.Sprintf("status %d", int(s)) }
func (s statusError) StatusCode() int { return int(s) }

func TestAdaptiveLimiter(t *testing.T) {
	ctx := context.Background()

	Convey("Given a limiter at 4 rps within [1, 8]", t, func() {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		lim := throttle.NewAdaptiveLimiter(4, 1, 8, 1, 0.5, throttle.WithClock(func() time.Time { return now }))

		Convey("Successes raise the rate up to the maximum", func() {
			for range 10 {
				So(lim.Do(ctx, func() error { return nil }), ShouldBeNil)
			}
			So(lim.CurrentLimit(), ShouldEqual, 8)
			So(lim.CurrentBurst(), ShouldEqual, 8)
		})

		Convey("An overload halves the rate and freezes it during the cooldown", func() {
			err := lim.Do(ctx, func() error { return statusError(429) })
			So(err, ShouldEqual, statusError(429))
			So(lim.CurrentLimit(), ShouldEqual, 2)

			lim.Success()
			So(lim.CurrentLimit(), ShouldEqual, 2)

			now = now.Add(11 * time.Second)
			lim.Success()
			So(lim.CurrentLimit(), ShouldEqual, 3)
		})

		Convey("The rate never drops below the minimum", func() {
			for range 5 {
				lim.RateLimited()
			}
			So(lim.CurrentLimit(), ShouldEqual, 1)
		})

		Convey("Other errors leave the rate alone and are not retried", func() {
			calls := 0
			err := lim.Do(ctx, func() error { calls++; return statusError(404) })
			So(err, ShouldNotBeNil)
			So(calls, ShouldEqual, 1)
			So(lim.CurrentLimit(), ShouldEqual, 4)
		})

		Convey("A canceled context skips the call", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			called := false
			err := lim.Do(cctx, func() error { called = true; return nil })
			So(err, ShouldNotBeNil)
			So(called, ShouldBeFalse)
		})
	})

	Convey("DefaultClassifier", t, func() {
		So(throttle.DefaultClassifier(statusError(503)), ShouldBeTrue)
		So(throttle.DefaultClassifier(fmt.Errorf("wrapped: %w", statusError(429))), ShouldBeTrue)
		So(throttle.DefaultClassifier(statusError(400)), ShouldBeFalse)
		So(throttle.DefaultClassifier(errors.New("plain")), ShouldBeFalse)
	})
}
