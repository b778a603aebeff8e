package reconcile

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/state"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// live is the engine's record of one materialized node: an element, a text
// node, an empty slot, or the container at the top of a Root.
type live struct {
	root   *Root
	vnode  *vdom.VNode // nil for an empty slot
	node   *html.Node  // nil for an empty slot
	parent *live

	children []*live

	// cell is the state cell of the nearest enclosing component.
	cell *state.Cell

	// cells holds the cells of components expanded directly under this
	// host. Nil for text nodes and empty slots.
	cells *cellTable

	// props are the resolved properties currently applied to node.
	props vdom.Resolved

	// handlers holds the current handler per event; removers the single
	// listener registered per event that calls it.
	handlers map[string]vdom.Handler
	removers map[string]func()

	ctrl *controller.Instance
	dead bool
}

// Rerender implements state.Owner: it re-flattens the host's children and
// patches them.
func (l *live) Rerender(*state.Cell) error {
	if l.dead {
		return nil
	}
	return l.root.patchChildren(l, l.flatten())
}

// Position implements state.Owner.
func (l *live) Position() []int {
	var path []int
	for n := l; n.parent != nil; n = n.parent {
		path = append(path, n.index())
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (l *live) index() int {
	for i, c := range l.parent.children {
		if c == l {
			return i
		}
	}
	return -1
}

// flatten expands the host's children, committing pending component state,
// and kills the cells of components that are gone.
func (l *live) flatten() []vdom.Item {
	l.cells.begin()
	items := vdom.Flatten(l.vnode.Children, l.cells, l.cell)
	l.cells.sweep()
	return items
}

func (l *live) isHost() bool {
	return l.vnode != nil && l.vnode.Kind == vdom.KindElement
}

func (l *live) isText() bool {
	return l.vnode != nil && l.vnode.Kind == vdom.KindText
}

// compatible reports whether it can be patched into l in place.
func (l *live) compatible(it vdom.Item) bool {
	switch {
	case it.Empty():
		return l.vnode == nil
	case l.vnode == nil:
		return false
	}
	switch it.Node.Kind {
	case vdom.KindElement:
		return l.isHost() && l.vnode.Tag == it.Node.Tag
	case vdom.KindText:
		return l.isText()
	default:
		vdom.BadKind(it.Node.Kind)
		return false
	}
}

// setHandlers points the per-event trampolines at the new handlers. A
// changed handler for a known event does not touch the DOM listener.
func (l *live) setHandlers(next map[string]vdom.Handler) {
	doc := l.root.doc
	for name, rm := range l.removers {
		if _, ok := next[name]; !ok {
			rm()
			delete(l.removers, name)
			delete(l.handlers, name)
		}
	}
	for name, h := range next {
		if l.handlers == nil {
			l.handlers = make(map[string]vdom.Handler)
			l.removers = make(map[string]func())
		}
		l.handlers[name] = h
		if _, ok := l.removers[name]; ok {
			continue
		}
		l.removers[name] = doc.AddEventListener(l.node, name, func(ev *dom.Event) {
			if fn := l.handlers[name]; fn != nil && !l.dead {
				fn(ev)
			}
		})
	}
}

// lookup finds a live controller of type t for a binding on l: first in l's
// subtree, then on its ancestors.
func (l *live) lookup(t *controller.Type) (controller.Controller, bool) {
	var found controller.Controller
	var walk func(n *live) bool
	walk = func(n *live) bool {
		for _, c := range n.children {
			if c.ctrl != nil && !c.ctrl.Disposed() && c.ctrl.Type() == t {
				found = c.ctrl.Controller()
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	if walk(l) {
		return found, true
	}
	for p := l.parent; p != nil; p = p.parent {
		if p.ctrl != nil && !p.ctrl.Disposed() && p.ctrl.Type() == t {
			return p.ctrl.Controller(), true
		}
	}
	return nil, false
}

// teardown disposes controllers bottom-up, kills the cells of components
// under l and drops its listeners. DOM nodes are left in place.
func (l *live) teardown() {
	for _, c := range l.children {
		c.teardown()
	}
	if l.ctrl != nil {
		l.ctrl.Dispose()
		l.ctrl = nil
	}
	if l.cells != nil {
		l.cells.killAll()
	}
	for _, rm := range l.removers {
		rm()
	}
	l.removers = nil
	l.handlers = nil
	l.dead = true
}

// destroy tears l down and removes its DOM subtree if detach is set.
func (l *live) destroy(detach bool) {
	l.teardown()
	if l.node == nil {
		return
	}
	doc := l.root.doc
	if detach && l.node.Parent != nil {
		doc.RemoveChild(l.node.Parent, l.node)
	}
	doc.Release(l.node)
}

// cellTable maps component positions under one host to their cells.
type cellTable struct {
	owner *live
	cells map[vdom.Key]*state.Cell
	seen  map[vdom.Key]bool
}

func newCellTable(owner *live) *cellTable {
	return &cellTable{
		owner: owner,
		cells: make(map[vdom.Key]*state.Cell),
	}
}

// Cell implements vdom.Scope.
func (t *cellTable) Cell(key vdom.Key, _ *state.Cell) *state.Cell {
	if t.seen != nil {
		t.seen[key] = true
	}
	if c, ok := t.cells[key]; ok && c.Alive() {
		return c
	}
	c := state.NewCell(t.owner.root.sched, t.owner)
	t.cells[key] = c
	return c
}

func (t *cellTable) begin() {
	t.seen = make(map[vdom.Key]bool, len(t.cells))
}

func (t *cellTable) sweep() {
	for key, c := range t.cells {
		if !t.seen[key] {
			c.Kill()
			delete(t.cells, key)
		}
	}
	t.seen = nil
}

func (t *cellTable) killAll() {
	for key, c := range t.cells {
		c.Kill()
		delete(t.cells, key)
	}
}
