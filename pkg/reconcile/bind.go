package reconcile

import (
	"github.com/vango-dev/hydra/pkg/controller"
)

// bind constructs the controller of an element whose subtree is already
// mounted.
func (r *Root) bind(l *live, b *controller.Binding) error {
	if b == nil {
		return nil
	}
	inst, err := controller.Bind(r.doc, l.node, *b, l.cell, controller.ResolverFunc(l.lookup), r.services)
	if err != nil {
		return err
	}
	l.ctrl = inst
	r.hooks.ControllerBound(b.Type.Name)
	r.logger.Debug("controller bound", "type", b.Type.Name, "node", r.doc.ID(l.node))
	return nil
}

// rebind updates the controller after the element was patched. A binding
// of the same type and state cell keeps its instance; any other change
// disposes it.
func (r *Root) rebind(l *live, b *controller.Binding) error {
	switch {
	case l.ctrl == nil:
		return r.bind(l, b)
	case b == nil:
		l.ctrl.Dispose()
		l.ctrl = nil
		return nil
	case l.ctrl.Type() == b.Type && l.ctrl.State() == l.cell:
		return l.ctrl.Rebind(*b)
	default:
		l.ctrl.Dispose()
		l.ctrl = nil
		return r.bind(l, b)
	}
}
