package reconcile

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/hydra/pkg/vdom"
)

// mount builds the live node and detached DOM subtree for it. Children are
// mounted depth-first before the element's controller is bound, so
// controllers deeper in the tree exist first. The caller inserts the
// returned node into the document.
func (r *Root) mount(parent *live, it vdom.Item) (*live, error) {
	l := &live{root: r, parent: parent, vnode: it.Node, cell: it.Cell}
	if it.Empty() {
		return l, nil
	}

	switch it.Node.Kind {
	case vdom.KindText:
		l.node = r.doc.CreateTextNode(it.Node.Text)
		return l, nil
	case vdom.KindElement:
	default:
		vdom.BadKind(it.Node.Kind)
	}

	l.node = r.doc.CreateElement(it.Node.Tag)
	l.cells = newCellTable(l)
	l.props = vdom.Resolve(it.Node.Props)
	applyProps(r.doc, l.node, vdom.Resolved{}, l.props)
	l.setHandlers(l.props.Events)

	for _, ci := range l.flatten() {
		child, err := r.mount(l, ci)
		if err != nil {
			l.destroy(false)
			return nil, err
		}
		l.children = append(l.children, child)
		if child.node != nil {
			r.doc.AppendChild(l.node, child.node)
		}
	}

	if err := r.bind(l, l.props.Controller); err != nil {
		l.destroy(false)
		return nil, err
	}
	return l, nil
}

// nextNode returns the DOM node of the first sibling after index i that
// still has one, or nil.
func nextNode(siblings []*live, i int) *html.Node {
	for _, s := range siblings[i+1:] {
		if s.node != nil && !s.dead {
			return s.node
		}
	}
	return nil
}
