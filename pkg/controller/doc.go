// Package controller binds imperative controllers to rendered elements.
//
// A controller Type declares, statically, which other controller types and
// which process-wide services it needs. When an element carrying a Binding
// is mounted, Bind resolves those dependencies (controllers already bound
// in the element's subtree or above it, then the Services registry) and
// constructs the controller with a Bundle:
//
//	var Counter = &controller.Type{
//	    Name:     "counter",
//	    Services: []*controller.ServiceType{Clock},
//	    New: func(b *controller.Bundle) (controller.Controller, error) {
//	        return &counter{b: b}, nil
//	    },
//	}
//
// A Binding's On map wires DOM events to controller methods by name; the
// methods must have signature func(*dom.Event). Listeners registered
// through the Bundle are removed when the controller is disposed.
//
// Resolution failures are returned synchronously (E110, E111, E112, E113)
// so the mount or patch that triggered them fails.
package controller
