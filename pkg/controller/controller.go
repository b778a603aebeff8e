package controller

import (
	"fmt"
	"reflect"

	"golang.org/x/net/html"

	herrors "github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/state"
)

// Controller is an imperative object bound to a DOM element.
type Controller any

// Disposer is implemented by controllers that hold resources beyond the
// listeners registered through their Bundle.
type Disposer interface {
	Dispose()
}

// Updater is implemented by controllers that want the new binding args when
// their element is patched. Controllers without it keep their original args.
type Updater interface {
	Update(args Args)
}

// Args are the declared arguments of a binding.
type Args map[string]any

// Type describes a kind of controller and its static dependencies.
type Type struct {
	// Name is written to the data-controller marker attribute.
	Name string

	// Requires lists controller types that must be bound in the same
	// subtree (below or above the element) when this one binds.
	Requires []*Type

	// Services lists process-wide services this controller uses.
	Services []*ServiceType

	// New constructs the controller. Dependencies are already resolved.
	New func(b *Bundle) (Controller, error)
}

// String returns the type name.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// Binding is the descriptor carried by an element's properties.
type Binding struct {
	Type *Type
	Args Args

	// On maps a DOM event name to the name of a controller method with
	// signature func(*dom.Event).
	On map[string]string

	// Ref is an optional reference name written as data-ref.
	Ref string
}

// Resolver finds controllers already bound around a binding site.
type Resolver interface {
	Lookup(t *Type) (Controller, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(t *Type) (Controller, bool)

// Lookup implements Resolver.
func (f ResolverFunc) Lookup(t *Type) (Controller, bool) { return f(t) }

// Instance is a bound controller.
type Instance struct {
	binding    Binding
	controller Controller
	bundle     *Bundle
	disposed   bool
}

// Type returns the controller type.
func (i *Instance) Type() *Type { return i.binding.Type }

// Controller returns the constructed controller.
func (i *Instance) Controller() Controller { return i.controller }

// Ref returns the binding's reference name.
func (i *Instance) Ref() string { return i.binding.Ref }

// Disposed reports whether Dispose was called.
func (i *Instance) Disposed() bool { return i.disposed }

// State returns the cell the controller was bound with.
func (i *Instance) State() *state.Cell { return i.bundle.State }

// Bind resolves the binding's dependencies and constructs the controller.
//
// Every required controller and service must resolve; the first one that
// does not fails the bind. Declared events are attached as listeners on
// root that call the named controller method.
func Bind(doc *dom.Document, root *html.Node, b Binding, cell *state.Cell, r Resolver, services *Services) (*Instance, error) {
	if b.Type == nil || b.Type.New == nil {
		return nil, herrors.New("E101").WithDetail("controller binding without a constructible type")
	}

	bundle := &Bundle{
		Args:        b.Args,
		Doc:         doc,
		Root:        root,
		State:       cell,
		controllers: make(map[*Type]Controller, len(b.Type.Requires)),
		services:    make(map[*ServiceType]any, len(b.Type.Services)),
	}

	for _, dep := range b.Type.Requires {
		var (
			c  Controller
			ok bool
		)
		if r != nil {
			c, ok = r.Lookup(dep)
		}
		if !ok {
			return nil, herrors.New("E110").
				WithDetailf("controller %q requires %q", b.Type.Name, dep.Name)
		}
		bundle.controllers[dep] = c
	}

	for _, dep := range b.Type.Services {
		if services == nil {
			return nil, herrors.New("E111").
				WithDetailf("controller %q requires service %q but no registry is configured", b.Type.Name, dep.Name)
		}
		v, err := services.Resolve(dep)
		if err != nil {
			return nil, err
		}
		bundle.services[dep] = v
	}

	c, err := b.Type.New(bundle)
	if err != nil {
		bundle.release()
		return nil, herrors.New("E114").WithDetailf("controller %q", b.Type.Name).Wrap(err)
	}

	inst := &Instance{binding: b, controller: c, bundle: bundle}
	for event, method := range b.On {
		fn, err := methodHandler(c, method)
		if err != nil {
			inst.Dispose()
			return nil, herrors.New("E113").
				WithDetailf("controller %q has no method %q for event %q", b.Type.Name, method, event).
				Wrap(err)
		}
		bundle.listenEvent(root, event, fn)
	}
	return inst, nil
}

// Rebind applies a new binding of the same type to a live instance. Event
// listeners are re-attached if the event map changed and Updater
// controllers receive the new args.
func (i *Instance) Rebind(b Binding) error {
	if !sameEvents(i.binding.On, b.On) {
		i.bundle.dropEvents()
		for event, method := range b.On {
			fn, err := methodHandler(i.controller, method)
			if err != nil {
				return herrors.New("E113").
					WithDetailf("controller %q has no method %q for event %q", b.Type.Name, method, event).
					Wrap(err)
			}
			i.bundle.listenEvent(i.bundle.Root, event, fn)
		}
	}
	i.binding = b
	i.bundle.Args = b.Args
	if u, ok := i.controller.(Updater); ok {
		u.Update(b.Args)
	}
	return nil
}

// Dispose removes every listener registered for the instance and disposes
// the controller. It is idempotent.
func (i *Instance) Dispose() {
	if i.disposed {
		return
	}
	i.disposed = true
	i.bundle.release()
	if d, ok := i.controller.(Disposer); ok {
		d.Dispose()
	}
}

func methodHandler(c Controller, name string) (dom.Listener, error) {
	m := reflect.ValueOf(c).MethodByName(name)
	if !m.IsValid() {
		return nil, fmt.Errorf("method %s not found on %T", name, c)
	}
	fn, ok := m.Interface().(func(*dom.Event))
	if !ok {
		return nil, fmt.Errorf("method %s on %T has signature %s", name, c, m.Type())
	}
	return fn, nil
}

func sameEvents(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
