package vdom

import (
	"fmt"
	"reflect"

	herrors "github.com/vango-dev/hydra/internal/errors"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Text primitive
	KindFragment               // Grouping without wrapper
	KindComponent              // Function component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode is a virtual node. It is immutable once built and discarded after
// the next diff.
//
// A nil entry in Children is an empty slot: it renders nothing but keeps its
// position, so conditionally rendered siblings do not shift.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Attributes, event and controller bindings
	Children []*VNode  // Child nodes, nil entries are empty slots
	Text     string    // For KindText
	Render   Component // For KindComponent
	Args     any       // For KindComponent
}

// Props maps property names to values.
type Props map[string]Value

// State is the committed state of a component instance as seen by its
// render function.
type State struct {
	value any
	set   bool
}

// NewState returns a State holding v.
func NewState(v any, set bool) State {
	return State{value: v, set: set}
}

// Value returns the committed value, or nil before the first update.
func (s State) Value() any { return s.value }

// IsSet reports whether the component has ever committed a value.
func (s State) IsSet() bool { return s.set }

// Use returns the state as T, or initial if it was never set or holds
// another type.
func Use[T any](s State, initial T) T {
	if !s.set {
		return initial
	}
	v, ok := s.value.(T)
	if !ok {
		return initial
	}
	return v
}

// Update schedules a new value for the component's state. The component is
// re-rendered on the next flush, never synchronously.
type Update func(next any)

// Component renders a subtree from its args and current state.
type Component func(args any, state State, update Update) *VNode

// Comp creates a component node.
func Comp(c Component, args any) *VNode {
	return &VNode{
		Kind:   KindComponent,
		Render: c,
		Args:   args,
	}
}

// Identity returns the code pointer of a component. Two component nodes
// with the same identity at the same position share state.
func Identity(c Component) uintptr {
	if c == nil {
		return 0
	}
	return reflect.ValueOf(c).Pointer()
}

// BadKind panics with an exhaustiveness error for k. Packages that switch
// over VKind call it from their default case.
func BadKind(k VKind) {
	panic(herrors.New("E100").WithDetail(fmt.Sprintf("node kind %d", k)))
}
