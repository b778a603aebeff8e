package state

import "sync/atomic"

// globalCellID is the source of unique cell IDs.
var globalCellID uint64

func nextCellID() uint64 {
	return atomic.AddUint64(&globalCellID, 1)
}

// Owner is the part of the rendered tree that holds a cell. The scheduler
// asks it to re-render when the cell has a pending update.
type Owner interface {
	// Rerender re-renders the subtree that contains the cell.
	Rerender(c *Cell) error

	// Position returns the owner's child-index path from the root, used to
	// order re-renders in document order.
	Position() []int
}

// Cell is the persistent state of one component instance.
//
// The value is opaque to the engine. Updates are buffered: Update stores a
// pending value and schedules a flush, and the value only changes when the
// component is next rendered (Commit). A killed cell ignores updates.
type Cell struct {
	id    uint64
	sched *Scheduler
	owner Owner

	value any
	set   bool

	pending    any
	dirty      bool
	generation uint64
	alive      bool
}

// NewCell creates a live cell without a value.
func NewCell(sched *Scheduler, owner Owner) *Cell {
	return &Cell{
		id:    nextCellID(),
		sched: sched,
		owner: owner,
		alive: true,
	}
}

// ID returns the unique identifier of the cell.
func (c *Cell) ID() uint64 { return c.id }

// Owner returns the owner that re-renders this cell.
func (c *Cell) Owner() Owner { return c.owner }

// SetOwner moves the cell to a new owner.
func (c *Cell) SetOwner(o Owner) { c.owner = o }

// Value returns the committed value and whether one was ever set.
func (c *Cell) Value() (any, bool) {
	return c.value, c.set
}

// Generation returns how many updates have been committed.
func (c *Cell) Generation() uint64 { return c.generation }

// Alive reports whether the owning instance is still mounted.
func (c *Cell) Alive() bool { return c.alive }

// Dirty reports whether an update is waiting to be committed.
func (c *Cell) Dirty() bool { return c.dirty }

// Update records next as the pending value and schedules a flush.
//
// Calls made before the flush overwrite each other; only the last value is
// committed. Updates on a killed cell are discarded.
func (c *Cell) Update(next any) {
	if c == nil {
		return
	}
	if !c.alive {
		if c.sched != nil {
			c.sched.noteStale(c)
		}
		return
	}
	c.pending = next
	if c.dirty {
		if c.sched != nil {
			c.sched.noteCoalesced()
		}
		return
	}
	c.dirty = true
	if c.sched != nil {
		c.sched.markDirty(c)
	}
}

// Commit makes the pending value current. It returns false if there was
// nothing to commit.
func (c *Cell) Commit() bool {
	if !c.dirty {
		return false
	}
	c.value = c.pending
	c.set = true
	c.pending = nil
	c.dirty = false
	c.generation++
	return true
}

// Kill clears the liveness flag. Pending and future updates are dropped.
func (c *Cell) Kill() {
	c.alive = false
	c.dirty = false
	c.pending = nil
}
