// Package metrics provides Prometheus metrics for the karaoke bot.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "karaoke"

// Command outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeDenied = "denied"
	OutcomeError  = "error"
)

// Manager owns the collectors. A nil *Manager is valid and records nothing.
type Manager struct {
	registry *prometheus.Registry

	commands         *prometheus.CounterVec
	commandDuration  *prometheus.HistogramVec
	queueLength      prometheus.Gauge
	performances     prometheus.Counter
	skips            prometheus.Counter
	platformFailures *prometheus.CounterVec
	eventActive      prometheus.Gauge
}

type Option func(*Manager)

// WithGoCollector also exports Go runtime and process metrics.
func WithGoCollector() Option {
	return func(m *Manager) {
		m.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
}

func NewManager(opts ...Option) *Manager {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	m := &Manager{
		registry: reg,
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands handled, by command and outcome.",
		}, []string{"command", "outcome"}),
		commandDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent handling a command, including platform calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		queueLength: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Performers currently waiting in the queue.",
		}),
		performances: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "performances_total",
			Help:      "Performances finished and logged.",
		}),
		skips: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skips_total",
			Help:      "Performers removed from the queue without performing.",
		}),
		platformFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "platform_failures_total",
			Help:      "Failed calls to the chat platform, by operation.",
		}, []string{"op"}),
		eventActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_active",
			Help:      "1 while the event is running.",
		}),
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) ObserveCommand(command, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome).Inc()
	m.commandDuration.WithLabelValues(command).Observe(seconds)
}

func (m *Manager) SetQueueLength(n int) {
	if m == nil {
		return
	}
	m.queueLength.Set(float64(n))
}

func (m *Manager) PerformanceFinished() {
	if m == nil {
		return
	}
	m.performances.Inc()
}

func (m *Manager) PerformerSkipped() {
	if m == nil {
		return
	}
	m.skips.Inc()
}

func (m *Manager) PlatformFailure(op string) {
	if m == nil {
		return
	}
	m.platformFailures.WithLabelValues(op).Inc()
}

func (m *Manager) SetEventActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.eventActive.Set(1)
	} else {
		m.eventActive.Set(0)
	}
}

// Commands returns the counter for tests and diagnostics.
func (m *Manager) Commands() *prometheus.CounterVec { return m.commands }

func (m *Manager) QueueLength() prometheus.Gauge { return m.queueLength }

func (m *Manager) Performances() prometheus.Counter { return m.performances }

func (m *Manager) Skips() prometheus.Counter { return m.skips }

func (m *Manager) PlatformFailures() *prometheus.CounterVec { return m.platformFailures }

func (m *Manager) EventActive() prometheus.Gauge { return m.eventActive }
