package controller

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/state"
)

// Bundle is what a controller receives at construction: its args, resolved
// dependencies, the element it is bound to and the state cell of the
// component that declared the binding.
type Bundle struct {
	Args  Args
	Doc   *dom.Document
	Root  *html.Node
	State *state.Cell

	controllers map[*Type]Controller
	services    map[*ServiceType]any

	events   []func()
	removers []func()
}

// Controller returns the resolved controller of type t, or nil if t was not
// declared in Requires.
func (b *Bundle) Controller(t *Type) Controller {
	return b.controllers[t]
}

// Service returns the resolved service of type t, or nil if t was not
// declared in Services.
func (b *Bundle) Service(t *ServiceType) any {
	return b.services[t]
}

// Listen registers a DOM listener that is removed when the controller is
// disposed.
func (b *Bundle) Listen(n *html.Node, typ string, fn dom.Listener) {
	b.removers = append(b.removers, b.Doc.AddEventListener(n, typ, fn))
}

// OnDispose registers fn to run when the controller is disposed.
func (b *Bundle) OnDispose(fn func()) {
	b.removers = append(b.removers, fn)
}

// Update schedules a state update on the shared cell.
func (b *Bundle) Update(v any) {
	b.State.Update(v)
}

// Get returns the resolved controller of type t as T.
func Get[T any](b *Bundle, t *Type) T {
	v, _ := b.controllers[t].(T)
	return v
}

// GetService returns the resolved service of type t as T.
func GetService[T any](b *Bundle, t *ServiceType) T {
	v, _ := b.services[t].(T)
	return v
}

// listenEvent registers a listener for a declared event binding.
func (b *Bundle) listenEvent(n *html.Node, typ string, fn dom.Listener) {
	b.events = append(b.events, b.Doc.AddEventListener(n, typ, fn))
}

func (b *Bundle) dropEvents() {
	for _, rm := range b.events {
		rm()
	}
	b.events = nil
}

func (b *Bundle) release() {
	b.dropEvents()
	for i := len(b.removers) - 1; i >= 0; i-- {
		b.removers[i]()
	}
	b.removers = nil
}
