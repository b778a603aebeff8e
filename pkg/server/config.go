package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/instrument"
	"github.com/vango-dev/hydra/pkg/render"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// SessionMeta is the name of the meta tag carrying the session id in a
// served page.
const SessionMeta = "hydra-session"

// Config configures a Server.
type Config struct {
	// Address is the listen address for ListenAndServe.
	Address string

	// App builds the tree served at "/". It is called once for the page
	// and once for the session hydrating it.
	App func() *vdom.VNode

	// Page carries the head data of the served document. Body, Meta and
	// ContainerID are set by the server.
	Page render.PageData

	// Services builds the service registry of one session. Nil gives each
	// session an empty registry.
	Services func() *controller.Services

	// Hooks observe every session's root.
	Hooks instrument.Hooks

	// Registry receives the server metrics and is served at MetricsPath.
	// Nil disables both.
	Registry *prometheus.Registry

	// WSPath is the WebSocket endpoint (default "/ws").
	WSPath string

	// MetricsPath is the Prometheus endpoint (default "/metrics").
	MetricsPath string

	// MaxSessions bounds pending plus live sessions. Zero means unlimited.
	MaxSessions int

	// PendingTTL is how long a served page waits for its WebSocket.
	PendingTTL time.Duration

	// MaxCascade is passed to every session's scheduler.
	MaxCascade int

	// MaxMessageSize bounds one client frame.
	MaxMessageSize int64

	// PingInterval is the WebSocket heartbeat period. The read deadline is
	// twice this value.
	PingInterval time.Duration

	// WriteTimeout bounds one WebSocket write.
	WriteTimeout time.Duration

	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration

	// CheckOrigin validates the WebSocket origin. Nil accepts same-origin
	// requests only.
	CheckOrigin func(r *http.Request) bool

	Logger *slog.Logger
}

// DefaultConfig returns a Config with defaults filled in.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":3000",
		WSPath:            "/ws",
		MetricsPath:       "/metrics",
		PendingTTL:        time.Minute,
		MaxMessageSize:    64 * 1024,
		PingInterval:      30 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// withDefaults returns a copy of c with unset fields defaulted.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.WSPath == "" {
		out.WSPath = d.WSPath
	}
	if out.MetricsPath == "" {
		out.MetricsPath = d.MetricsPath
	}
	if out.PendingTTL <= 0 {
		out.PendingTTL = d.PendingTTL
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	if out.PingInterval <= 0 {
		out.PingInterval = d.PingInterval
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.ReadHeaderTimeout <= 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.Hooks == nil {
		out.Hooks = instrument.Nop{}
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
