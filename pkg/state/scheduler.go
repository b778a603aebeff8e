package state

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"time"

	herrors "github.com/vango-dev/hydra/internal/errors"
)

// DefaultMaxCascade is the default number of flushes a flush may trigger in
// a row before the scheduler reports an update storm.
const DefaultMaxCascade = 100

// FlushInfo describes one completed flush.
type FlushInfo struct {
	// Cells is the number of dirty cells the flush started with.
	Cells int
	// Rerendered is the number of owner re-renders performed.
	Rerendered int
	// Skipped counts cells that were dead or already committed.
	Skipped  int
	Duration time.Duration
	Err      error
}

// Hooks observe scheduler activity. Nil fields are ignored.
type Hooks struct {
	OnFlush func(FlushInfo)
	OnStale func()
}

// Stats are cumulative scheduler counters.
type Stats struct {
	Flushes      uint64
	Rerenders    uint64
	StaleUpdates uint64
	Coalesced    uint64
}

// Scheduler batches cell updates into flushes on a microtask queue.
//
// The first update of a turn enqueues one flush; later updates in the same
// turn join it. A flush re-renders the owners of the dirty cells in
// document order. Updates made during a flush enqueue a new flush.
type Scheduler struct {
	queue  *Queue
	logger *slog.Logger
	hooks  Hooks

	dirty     []*Cell
	scheduled bool
	flushing  bool

	maxCascade int
	cascade    int
	nextDepth  int

	stats Stats
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets the scheduler logger.
func WithLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHooks sets observation hooks.
func WithHooks(h Hooks) SchedulerOption {
	return func(s *Scheduler) {
		s.hooks = h
	}
}

// WithMaxCascade sets the update storm budget. Values <= 0 use the default.
func WithMaxCascade(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.maxCascade = n
		}
	}
}

// NewScheduler creates a scheduler that enqueues flushes on q.
func NewScheduler(q *Queue, opts ...SchedulerOption) *Scheduler {
	if q == nil {
		q = NewQueue()
	}
	s := &Scheduler{
		queue:      q,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxCascade: DefaultMaxCascade,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Queue returns the microtask queue flushes are scheduled on.
func (s *Scheduler) Queue() *Queue { return s.queue }

// Stats returns a copy of the cumulative counters.
func (s *Scheduler) Stats() Stats { return s.stats }

// Pending reports whether a flush is scheduled.
func (s *Scheduler) Pending() bool { return s.scheduled }

// Drain runs the microtask queue, which runs every scheduled flush.
func (s *Scheduler) Drain() error {
	return s.queue.Drain()
}

func (s *Scheduler) markDirty(c *Cell) {
	s.dirty = append(s.dirty, c)
	if s.scheduled {
		return
	}
	s.scheduled = true
	if s.flushing {
		s.nextDepth = s.cascade + 1
	} else {
		s.nextDepth = 0
	}
	s.queue.Enqueue(s.flush)
}

func (s *Scheduler) noteStale(c *Cell) {
	s.stats.StaleUpdates++
	s.logger.Debug("discarded update on unmounted cell", "cell", c.id)
	if s.hooks.OnStale != nil {
		s.hooks.OnStale()
	}
}

func (s *Scheduler) noteCoalesced() {
	s.stats.Coalesced++
}

// flush re-renders every live dirty cell's owner.
func (s *Scheduler) flush() error {
	start := time.Now()
	s.scheduled = false
	s.cascade = s.nextDepth
	cells := s.dirty
	s.dirty = nil

	info := FlushInfo{Cells: len(cells)}
	if s.cascade >= s.maxCascade {
		for _, c := range cells {
			c.dirty = false
			c.pending = nil
		}
		info.Err = herrors.New("E120").WithDetailf("%d consecutive flushes", s.cascade+1)
		s.finish(info, start)
		return info.Err
	}

	s.flushing = true
	defer func() { s.flushing = false }()

	live := make([]*Cell, 0, len(cells))
	for _, c := range cells {
		if c.alive && c.dirty && c.owner != nil {
			live = append(live, c)
		} else {
			info.Skipped++
		}
	}
	slices.SortStableFunc(live, func(a, b *Cell) int {
		return comparePositions(a.owner.Position(), b.owner.Position())
	})

	var errs []error
	for _, c := range live {
		// An ancestor's re-render earlier in this flush may have committed
		// or killed the cell already.
		if !c.alive || !c.dirty {
			info.Skipped++
			continue
		}
		if err := c.owner.Rerender(c); err != nil {
			errs = append(errs, err)
			continue
		}
		info.Rerendered++
	}
	info.Err = errors.Join(errs...)
	s.finish(info, start)
	return info.Err
}

func (s *Scheduler) finish(info FlushInfo, start time.Time) {
	info.Duration = time.Since(start)
	s.stats.Flushes++
	s.stats.Rerenders += uint64(info.Rerendered)
	s.logger.Debug("flush",
		"cells", info.Cells,
		"rerendered", info.Rerendered,
		"skipped", info.Skipped,
		"duration", info.Duration,
		"error", info.Err,
	)
	if s.hooks.OnFlush != nil {
		s.hooks.OnFlush(info)
	}
}

// comparePositions orders child-index paths in document order: a prefix
// (ancestor) sorts before its extensions.
func comparePositions(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}
