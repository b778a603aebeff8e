package state

import (
	"context"
	"io"
	"log/slog"
	"sync"

	herrors "github.com/vango-dev/hydra/internal/errors"
)

// Loop confines the engine to one goroutine.
//
// Other goroutines hand work to the loop with Post. Run executes posted
// tasks one at a time and drains the microtask queue after each, so every
// state update made by a task is flushed before the next task starts.
type Loop struct {
	queue  *Queue
	logger *slog.Logger

	// OnError receives errors returned by a drain. Defaults to logging.
	OnError func(error)

	mu      sync.Mutex
	tasks   []func()
	wake    chan struct{}
	stopped bool
}

// NewLoop creates a loop draining q after every task.
func NewLoop(q *Queue, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loop{
		queue:  q,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Post schedules fn to run on the loop goroutine. It never blocks and
// returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run processes tasks until ctx is done. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.tasks = nil
		l.mu.Unlock()
	}()

	l.drain()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.runPending()
		}
	}
}

// Call runs fn on the loop goroutine and waits for it and the following
// drain to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	// The second task runs after fn's drain.
	if !l.Post(fn) || !l.Post(func() { close(done) }) {
		return herrors.New("E121")
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) runPending() {
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.tasks[0]
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		fn()
		l.drain()
	}
}

func (l *Loop) drain() {
	if err := l.queue.Drain(); err != nil {
		if l.OnError != nil {
			l.OnError(err)
			return
		}
		l.logger.Error("flush failed", "error", err)
	}
}
