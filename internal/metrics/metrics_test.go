package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artemetr/discord-karaoke-bot/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := metrics.NewManager()

		Convey("Commands are counted by outcome", func() {
			m.ObserveCommand("append", metrics.OutcomeOK, 0.01)
			m.ObserveCommand("append", metrics.OutcomeOK, 0.02)
			m.ObserveCommand("finish", metrics.OutcomeDenied, 0.001)

			So(testutil.ToFloat64(m.Commands().WithLabelValues("append", metrics.OutcomeOK)), ShouldEqual, 2)
			So(testutil.ToFloat64(m.Commands().WithLabelValues("finish", metrics.OutcomeDenied)), ShouldEqual, 1)
		})

		Convey("Queue gauges and counters move", func() {
			m.SetQueueLength(3)
			m.PerformanceFinished()
			m.PerformerSkipped()
			m.PlatformFailure("send_message")

			So(testutil.ToFloat64(m.QueueLength()), ShouldEqual, 3)
			So(testutil.ToFloat64(m.Performances()), ShouldEqual, 1)
			So(testutil.ToFloat64(m.Skips()), ShouldEqual, 1)
			So(testutil.ToFloat64(m.PlatformFailures().WithLabelValues("send_message")), ShouldEqual, 1)
		})

		Convey("The handler exposes the karaoke namespace", func() {
			m.SetEventActive(true)
			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
			body, _ := io.ReadAll(rec.Body)
			So(strings.Contains(string(body), "karaoke_event_active 1"), ShouldBeTrue)
		})
	})

	Convey("A nil manager is a no-op", t, func() {
		var m *metrics.Manager
		So(func() {
			m.ObserveCommand("x", metrics.OutcomeOK, 0)
			m.SetQueueLength(1)
			m.PerformanceFinished()
			m.PerformerSkipped()
			m.PlatformFailure("x")
			m.SetEventActive(true)
		}, ShouldNotPanic)
	})
}
