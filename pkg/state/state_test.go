package state

import (
	"context"
	"errors"
	"testing"
	"time"

	herrors "github.com/vango-dev/hydra/internal/errors"
)

// fakeOwner commits its cell on re-render and records the order.
type fakeOwner struct {
	name     string
	pos      []int
	log      *[]string
	onRender func(c *Cell)
	err      error
}

func (o *fakeOwner) Rerender(c *Cell) error {
	c.Commit()
	*o.log = append(*o.log, o.name)
	if o.onRender != nil {
		o.onRender(c)
	}
	return o.err
}

func (o *fakeOwner) Position() []int { return o.pos }

func TestQueue_FIFOAndNested(t *testing.T) {
	q := NewQueue()
	var order []int
	q.Enqueue(func() error {
		order = append(order, 1)
		q.Enqueue(func() error { order = append(order, 3); return nil })
		if err := q.Drain(); err != nil {
			t.Errorf("nested Drain: %v", err)
		}
		return nil
	})
	q.Enqueue(func() error { order = append(order, 2); return nil })

	if err := q.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestQueue_StopsAtError(t *testing.T) {
	q := NewQueue()
	boom := errors.New("boom")
	ran := false
	q.Enqueue(func() error { return boom })
	q.Enqueue(func() error { ran = true; return nil })

	if err := q.Drain(); !errors.Is(err, boom) {
		t.Fatalf("Drain = %v, want boom", err)
	}
	if ran || q.Len() != 1 {
		t.Errorf("remaining task ran=%v, Len=%d", ran, q.Len())
	}
}

func TestCell_UpdatesCoalesce(t *testing.T) {
	var log []string
	s := NewScheduler(nil)
	c := NewCell(s, &fakeOwner{name: "a", log: &log})

	c.Update(1)
	c.Update(2)
	c.Update(3)
	if v, set := c.Value(); set || v != nil {
		t.Errorf("value visible before flush: %v", v)
	}
	if !s.Pending() || s.Queue().Len() != 1 {
		t.Fatalf("want one scheduled flush, queue len %d", s.Queue().Len())
	}

	if err := s.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if v, _ := c.Value(); v != 3 {
		t.Errorf("Value() = %v, want 3", v)
	}
	st := s.Stats()
	if st.Flushes != 1 || st.Rerenders != 1 || st.Coalesced != 2 {
		t.Errorf("Stats = %+v", st)
	}
	if c.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", c.Generation())
	}
}

func TestScheduler_DocumentOrder(t *testing.T) {
	var log []string
	s := NewScheduler(nil)
	deep := NewCell(s, &fakeOwner{name: "deep", pos: []int{0, 1, 0}, log: &log})
	later := NewCell(s, &fakeOwner{name: "later", pos: []int{1}, log: &log})
	top := NewCell(s, &fakeOwner{name: "top", pos: []int{0}, log: &log})

	later.Update(1)
	deep.Update(1)
	top.Update(1)
	if err := s.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	want := []string{"top", "deep", "later"}
	for i := range want {
		if i >= len(log) || log[i] != want[i] {
			t.Fatalf("order = %v, want %v", log, want)
		}
	}
}

func TestScheduler_SkipsCommittedAndDead(t *testing.T) {
	var log []string
	s := NewScheduler(nil)
	child := NewCell(s, &fakeOwner{name: "child", pos: []int{0, 0}, log: &log})
	parent := NewCell(s, &fakeOwner{name: "parent", pos: []int{0}, log: &log, onRender: func(*Cell) {
		// The parent re-render reaches the child and commits it.
		child.Commit()
	}})
	dead := NewCell(s, &fakeOwner{name: "dead", pos: []int{1}, log: &log})

	child.Update(1)
	parent.Update(1)
	dead.Update(1)
	dead.Kill()

	var info FlushInfo
	s.hooks.OnFlush = func(fi FlushInfo) { info = fi }
	if err := s.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(log) != 1 || log[0] != "parent" {
		t.Errorf("rendered %v, want [parent]", log)
	}
	if info.Cells != 3 || info.Rerendered != 1 || info.Skipped != 2 {
		t.Errorf("FlushInfo = %+v", info)
	}
}

func TestCell_StaleUpdate(t *testing.T) {
	var log []string
	stale := 0
	s := NewScheduler(nil, WithHooks(Hooks{OnStale: func() { stale++ }}))
	c := NewCell(s, &fakeOwner{name: "a", log: &log})
	c.Kill()
	c.Update(1)

	if stale != 1 || s.Stats().StaleUpdates != 1 {
		t.Errorf("stale hook = %d, stats = %+v", stale, s.Stats())
	}
	if s.Pending() {
		t.Error("a dead cell must not schedule a flush")
	}

	var nilCell *Cell
	nilCell.Update(1)
}

func TestScheduler_UpdateDuringFlushSchedulesAnother(t *testing.T) {
	var log []string
	s := NewScheduler(nil)
	var other *Cell
	first := NewCell(s, &fakeOwner{name: "first", log: &log, onRender: func(*Cell) { other.Update(1) }})
	other = NewCell(s, &fakeOwner{name: "other", pos: []int{1}, log: &log})

	first.Update(1)
	if err := s.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if s.Stats().Flushes != 2 || len(log) != 2 {
		t.Errorf("flushes = %d, renders = %v", s.Stats().Flushes, log)
	}
}

func TestScheduler_Storm(t *testing.T) {
	var log []string
	s := NewScheduler(nil, WithMaxCascade(3))
	c := NewCell(s, nil)
	c.SetOwner(&fakeOwner{name: "loop", log: &log, onRender: func(c *Cell) { c.Update(len(log)) }})

	c.Update(0)
	err := s.Drain()
	if !herrors.HasCode(err, "E120") {
		t.Fatalf("Drain = %v, want E120", err)
	}
	if len(log) != 3 {
		t.Errorf("rendered %d times before the storm, want 3", len(log))
	}
	if c.Dirty() || s.Pending() {
		t.Error("the storm must drop the pending update")
	}

	// The budget resets for the next turn.
	c.SetOwner(&fakeOwner{name: "calm", log: &log})
	c.Update(1)
	if err := s.Drain(); err != nil {
		t.Errorf("Drain after storm: %v", err)
	}
}

func TestScheduler_RerenderErrorsJoined(t *testing.T) {
	var log []string
	s := NewScheduler(nil)
	e1, e2 := errors.New("one"), errors.New("two")
	a := NewCell(s, &fakeOwner{name: "a", pos: []int{0}, log: &log, err: e1})
	b := NewCell(s, &fakeOwner{name: "b", pos: []int{1}, log: &log, err: e2})
	a.Update(1)
	b.Update(1)

	err := s.Drain()
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("Drain = %v, want both errors", err)
	}
	if len(log) != 2 {
		t.Errorf("one failing owner stopped the flush: %v", log)
	}
}

func TestComparePositions(t *testing.T) {
	tests := []struct {
		a, b []int
		sign int
	}{
		{[]int{0}, []int{0, 1}, -1},
		{[]int{1}, []int{0, 5}, 1},
		{[]int{2, 3}, []int{2, 3}, 0},
		{nil, []int{0}, -1},
	}
	for _, tt := range tests {
		got := comparePositions(tt.a, tt.b)
		if (got < 0 && tt.sign >= 0) || (got > 0 && tt.sign <= 0) || (got == 0 && tt.sign != 0) {
			t.Errorf("comparePositions(%v, %v) = %d, want sign %d", tt.a, tt.b, got, tt.sign)
		}
	}
}

func TestLoop_RunsTasksAndDrains(t *testing.T) {
	var log []string
	s := NewScheduler(nil)
	c := NewCell(s, &fakeOwner{name: "a", log: &log})
	loop := NewLoop(s.Queue(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	if err := loop.Call(ctx, func() { c.Update(5) }); err != nil {
		t.Fatalf("Call: %v", err)
	}
	// Call returns after the drain that follows the task.
	var v any
	if err := loop.Call(ctx, func() { v, _ = c.Value() }); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if v != 5 {
		t.Errorf("value after Call = %v, want 5", v)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}

	if loop.Post(func() {}) {
		t.Error("Post after stop should return false")
	}
	if err := loop.Call(context.Background(), func() {}); !herrors.HasCode(err, "E121") {
		t.Errorf("Call after stop = %v, want E121", err)
	}
}

func TestLoop_OnError(t *testing.T) {
	var log []string
	s := NewScheduler(nil, WithMaxCascade(1))
	c := NewCell(s, nil)
	c.SetOwner(&fakeOwner{name: "a", log: &log, onRender: func(c *Cell) { c.Update(1) }})

	loop := NewLoop(s.Queue(), nil)
	errs := make(chan error, 1)
	loop.OnError = func(err error) { errs <- err }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	loop.Post(func() { c.Update(0) })
	select {
	case err := <-errs:
		if !herrors.HasCode(err, "E120") {
			t.Errorf("OnError got %v, want E120", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("OnError not called")
	}
}
