package reconcile

import (
	"slices"

	"golang.org/x/net/html"

	"github.com/vango-dev/hydra/pkg/instrument"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// hydration tracks mismatches found while adopting server markup.
type hydration struct {
	r          *Root
	mismatches int
}

var mismatchCodes = map[string]string{
	instrument.MismatchNode:      "E130",
	instrument.MismatchText:      "E131",
	instrument.MismatchMissing:   "E132",
	instrument.MismatchExtra:     "E133",
	instrument.MismatchAttribute: "E134",
}

func (h *hydration) mismatch(kind string, n *html.Node) {
	h.mismatches++
	h.r.hooks.HydrationMismatch(kind)
	h.r.logger.Debug("hydration mismatch",
		"code", mismatchCodes[kind],
		"kind", kind,
		"node", describe(n),
	)
}

// hydrateChildren walks items and the existing DOM children of l.node in
// lock-step. Compatible nodes are adopted, incompatible ones replaced by a
// fresh mount, leftovers removed. Empty slots consume no DOM node.
func (h *hydration) hydrateChildren(l *live, items []vdom.Item) error {
	r := h.r
	parent := l.node
	cur := parent.FirstChild

	for _, it := range items {
		cur = h.skipComments(parent, cur)

		if it.Empty() {
			l.children = append(l.children, &live{root: r, parent: l, cell: it.Cell})
			continue
		}

		if it.Node.Kind == vdom.KindText && it.Node.Text == "" {
			// Empty text renders no markup, so there is nothing to adopt.
			child, err := r.mount(l, it)
			if err != nil {
				return err
			}
			l.children = append(l.children, child)
			r.doc.InsertBefore(parent, child.node, cur)
			continue
		}

		if cur != nil && adoptable(cur, it.Node) {
			next := cur.NextSibling
			if err := h.adopt(l, cur, it); err != nil {
				return err
			}
			cur = next
			continue
		}

		child, err := r.mount(l, it)
		if err != nil {
			return err
		}
		l.children = append(l.children, child)

		if cur != nil {
			next := cur.NextSibling
			h.mismatch(instrument.MismatchNode, cur)
			r.doc.ReplaceChild(parent, child.node, cur)
			r.doc.Release(cur)
			cur = next
		} else {
			h.mismatch(instrument.MismatchMissing, child.node)
			r.doc.AppendChild(parent, child.node)
		}
	}

	for cur != nil {
		next := cur.NextSibling
		if cur.Type != html.CommentNode {
			h.mismatch(instrument.MismatchExtra, cur)
		}
		r.doc.RemoveChild(parent, cur)
		r.doc.Release(cur)
		cur = next
	}
	return nil
}

// skipComments removes comment nodes starting at cur, including the text
// separators the server renderer writes, and returns the next other node.
func (h *hydration) skipComments(parent, cur *html.Node) *html.Node {
	for cur != nil && cur.Type == html.CommentNode {
		next := cur.NextSibling
		h.r.doc.RemoveChild(parent, cur)
		h.r.doc.Release(cur)
		cur = next
	}
	return cur
}

// adopt takes over an existing DOM node for it, correcting text and
// attributes in place.
func (h *hydration) adopt(parent *live, n *html.Node, it vdom.Item) error {
	r := h.r
	l := &live{root: r, parent: parent, vnode: it.Node, node: n, cell: it.Cell}
	parent.children = append(parent.children, l)

	if it.Node.Kind == vdom.KindText {
		if n.Data != it.Node.Text {
			h.mismatch(instrument.MismatchText, n)
			r.doc.SetText(n, it.Node.Text)
		}
		return nil
	}

	l.cells = newCellTable(l)
	l.props = vdom.Resolve(it.Node.Props)
	have := domProps(n)
	if !slices.Equal(have.Attrs, l.props.Attrs) {
		h.mismatch(instrument.MismatchAttribute, n)
	}
	applyProps(r.doc, n, have, l.props)
	l.setHandlers(l.props.Events)

	if err := h.hydrateChildren(l, l.flatten()); err != nil {
		return err
	}
	return r.bind(l, l.props.Controller)
}

// adoptable reports whether the DOM node n can serve the virtual node v.
func adoptable(n *html.Node, v *vdom.VNode) bool {
	switch v.Kind {
	case vdom.KindElement:
		return n.Type == html.ElementNode && n.Data == v.Tag
	case vdom.KindText:
		return n.Type == html.TextNode
	default:
		vdom.BadKind(v.Kind)
		return false
	}
}

func describe(n *html.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type {
	case html.ElementNode:
		return "<" + n.Data + ">"
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	default:
		return "#node"
	}
}
