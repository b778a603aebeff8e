package reconcile

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// applyProps moves the element from the old resolved props to next:
// dropped attributes and properties are removed, new or changed ones set.
// Unchanged values cause no mutation.
func applyProps(doc *dom.Document, n *html.Node, old, next vdom.Resolved) {
	for _, a := range old.Attrs {
		if _, ok := next.Attr(a.Name); !ok {
			doc.RemoveAttribute(n, a.Name)
		}
	}
	for _, a := range next.Attrs {
		if v, ok := old.Attr(a.Name); ok && v == a.Value {
			continue
		}
		doc.SetAttribute(n, a.Name, a.Value)
	}

	for name := range old.Live {
		if _, ok := next.Live[name]; !ok {
			doc.DeleteProperty(n, name)
		}
	}
	for name, v := range next.Live {
		doc.SetProperty(n, name, v)
	}
}

// domProps reads the attributes an existing element carries, so hydration
// can reconcile them with applyProps.
func domProps(n *html.Node) vdom.Resolved {
	var r vdom.Resolved
	for _, a := range n.Attr {
		if a.Namespace != "" {
			continue
		}
		r.Attrs = append(r.Attrs, vdom.Attribute{Name: a.Key, Value: a.Val})
	}
	sortAttrs(r.Attrs)
	return r
}

func sortAttrs(attrs []vdom.Attribute) {
	slices.SortFunc(attrs, func(a, b vdom.Attribute) int {
		return strings.Compare(a.Name, b.Name)
	})
}
