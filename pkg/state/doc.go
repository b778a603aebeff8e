// Package state owns per-component-instance state and the update scheduler.
//
// A Cell belongs to exactly one mounted component instance. Cell.Update
// never re-renders synchronously: it stores a pending value (the last call
// wins), marks the cell dirty and, for the first update of a turn, enqueues
// a flush on the microtask Queue. A flush re-renders the owners of all live
// dirty cells in document order.
//
//	q := state.NewQueue()
//	sched := state.NewScheduler(q)
//	...
//	cell.Update(1)
//	cell.Update(2) // coalesced: the flush only sees 2
//	sched.Drain()
//
// Killing a cell (its instance was unmounted) turns later updates into
// silent no-ops, which lets asynchronous callbacks outlive their subtree.
//
// The package is single-threaded. Loop confines work to one goroutine and
// is the way other goroutines schedule updates.
package state
