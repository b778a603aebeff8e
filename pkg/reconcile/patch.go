package reconcile

import (
	"github.com/vango-dev/hydra/pkg/vdom"
)

// patchChildren aligns l's live children with items by position.
//
// Compatible pairs are patched in place. An incompatible old child is torn
// down and the new item mounted at the same offset. Old children past the
// end of items are removed. On error the children already processed keep
// their new state and the rest stay as they were.
func (r *Root) patchChildren(l *live, items []vdom.Item) error {
	old := l.children
	next := make([]*live, 0, len(items))

	for i, it := range items {
		if i >= len(old) {
			child, err := r.mount(l, it)
			if err != nil {
				l.children = next
				return err
			}
			if child.node != nil {
				r.doc.AppendChild(l.node, child.node)
			}
			next = append(next, child)
			continue
		}

		o := old[i]
		if o.compatible(it) {
			if err := r.patch(o, it); err != nil {
				l.children = append(next, old[i:]...)
				return err
			}
			next = append(next, o)
			continue
		}

		o.teardown()
		child, err := r.mount(l, it)
		if err != nil {
			o.destroy(true)
			l.children = append(next, old[i+1:]...)
			return err
		}
		switch {
		case child.node == nil:
			o.destroy(true)
		case o.node != nil:
			r.doc.ReplaceChild(l.node, child.node, o.node)
			o.destroy(false)
		default:
			r.doc.InsertBefore(l.node, child.node, nextNode(old, i))
		}
		next = append(next, child)
	}

	for _, o := range old[min(len(items), len(old)):] {
		o.destroy(true)
	}
	l.children = next
	return nil
}

// patch brings a compatible live node up to date with it.
func (r *Root) patch(l *live, it vdom.Item) error {
	l.cell = it.Cell
	if it.Empty() {
		return nil
	}
	l.vnode = it.Node

	switch it.Node.Kind {
	case vdom.KindText:
		r.doc.SetText(l.node, it.Node.Text)
		return nil
	case vdom.KindElement:
	default:
		vdom.BadKind(it.Node.Kind)
	}

	next := vdom.Resolve(it.Node.Props)
	applyProps(r.doc, l.node, l.props, next)
	l.setHandlers(next.Events)
	l.props = next

	if err := r.patchChildren(l, l.flatten()); err != nil {
		return err
	}
	return r.rebind(l, next.Controller)
}
