package vdom

import (
	"github.com/vango-dev/hydra/pkg/state"
)

// Item is one entry of a flattened child sequence: a host element, a text
// primitive or an empty slot.
type Item struct {
	// Node is a KindElement or KindText node, or nil for an empty slot.
	Node *VNode

	// Cell is the state cell of the nearest enclosing component, or the
	// scope the sequence was flattened in.
	Cell *state.Cell
}

// Empty reports whether the item is an empty slot.
func (it Item) Empty() bool { return it.Node == nil }

// Key is the positional identity of a component within its nearest host
// element.
type Key struct {
	Offset int     // flattened position where the component starts
	Depth  int     // nesting depth of directly returned components
	Fn     uintptr // component identity

	// Seq counts the earlier components of this flatten with the same
	// offset, depth and identity. Components that render nothing leave the
	// offset unchanged, so siblings of one kind are told apart by Seq.
	Seq int
}

// Scope supplies the state cells of the components expanded under one host
// element.
type Scope interface {
	// Cell returns the cell for key, creating it on first use. parent is the
	// cell of the enclosing component.
	Cell(key Key, parent *state.Cell) *state.Cell
}

// Flatten expands components and splices fragments so that children become
// a flat sequence of host items.
//
// Components are called with the state of the cell scope resolves for
// their position. A pending update on that cell is committed first. With a
// nil scope, components see unset state and their updates are dropped;
// this is how the server renderer flattens. Unknown node kinds panic.
func Flatten(children []*VNode, scope Scope, cell *state.Cell) []Item {
	f := flattener{scope: scope, seen: make(map[Key]int)}
	f.children(children, cell, 0)
	return f.out
}

type flattener struct {
	scope Scope
	out   []Item
	seen  map[Key]int
}

func (f *flattener) children(children []*VNode, cell *state.Cell, depth int) {
	for _, c := range children {
		f.node(c, cell, depth)
	}
}

func (f *flattener) node(n *VNode, cell *state.Cell, depth int) {
	if n == nil {
		f.out = append(f.out, Item{Cell: cell})
		return
	}

	switch n.Kind {
	case KindElement, KindText:
		f.out = append(f.out, Item{Node: n, Cell: cell})
	case KindFragment:
		f.children(n.Children, cell, depth)
	case KindComponent:
		f.component(n, cell, depth)
	default:
		BadKind(n.Kind)
	}
}

func (f *flattener) component(n *VNode, parent *state.Cell, depth int) {
	if n.Render == nil {
		f.out = append(f.out, Item{Cell: parent})
		return
	}

	var st State
	var cell *state.Cell
	if f.scope != nil {
		base := Key{Offset: len(f.out), Depth: depth, Fn: Identity(n.Render)}
		key := base
		key.Seq = f.seen[base]
		f.seen[base]++
		cell = f.scope.Cell(key, parent)
		cell.Commit()
		st.value, st.set = cell.Value()
	}

	out := n.Render(n.Args, st, cell.Update)
	f.node(out, cell, depth+1)
}
