package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are the server-level Prometheus series. A nil *metrics records
// nothing.
type metrics struct {
	pages    prometheus.Counter
	sessions prometheus.Gauge
	frames   *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	f := promauto.With(reg)
	return &metrics{
		pages: f.NewCounter(prometheus.CounterOpts{
			Namespace: "hydra",
			Subsystem: "server",
			Name:      "pages_total",
			Help:      "Pages rendered for new sessions.",
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "hydra",
			Subsystem: "server",
			Name:      "sessions",
			Help:      "Live WebSocket sessions.",
		}),
		frames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hydra",
			Subsystem: "server",
			Name:      "frames_total",
			Help:      "Protocol frames by direction and type.",
		}, []string{"direction", "type"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hydra",
			Subsystem: "server",
			Name:      "rejected_total",
			Help:      "Requests rejected before a session started.",
		}, []string{"reason"}),
	}
}

func (m *metrics) pageServed() {
	if m != nil {
		m.pages.Inc()
	}
}

func (m *metrics) sessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

func (m *metrics) sessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

func (m *metrics) frame(direction, typ string) {
	if m != nil {
		m.frames.WithLabelValues(direction, typ).Inc()
	}
}

func (m *metrics) reject(reason string) {
	if m != nil {
		m.rejected.WithLabelValues(reason).Inc()
	}
}
