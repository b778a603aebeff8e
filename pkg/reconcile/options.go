package reconcile

import (
	"io"
	"log/slog"

	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/instrument"
	"github.com/vango-dev/hydra/pkg/state"
)

// Option configures a Root.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	sched      *state.Scheduler
	services   *controller.Services
	hooks      instrument.Hooks
	maxCascade int
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger for mount, hydration and flush diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithScheduler makes the root share an existing scheduler, so several
// roots flush together. Hooks are not attached to a shared scheduler's
// flushes; configure them on the scheduler itself.
func WithScheduler(s *state.Scheduler) Option {
	return func(o *options) {
		o.sched = s
	}
}

// WithServices sets the registry controllers resolve services from.
func WithServices(s *controller.Services) Option {
	return func(o *options) {
		o.services = s
	}
}

// WithHooks sets observation hooks. The hooks see every mutation of the
// root's document.
func WithHooks(h instrument.Hooks) Option {
	return func(o *options) {
		o.hooks = h
	}
}

// WithMaxCascade sets the update storm budget of the root's own scheduler.
func WithMaxCascade(n int) Option {
	return func(o *options) {
		o.maxCascade = n
	}
}
