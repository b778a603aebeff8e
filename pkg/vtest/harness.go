package vtest

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/reconcile"
	"github.com/vango-dev/hydra/pkg/render"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// Harness is a tree rendered into a fresh document.
type Harness struct {
	t testing.TB

	Doc       *dom.Document
	Container *html.Node
	Root      *reconcile.Root

	base uint64
}

func newContainer() (*dom.Document, *html.Node) {
	doc := dom.NewDocument()
	container := doc.CreateElement("div")
	doc.SetAttribute(container, "id", render.DefaultContainerID)
	doc.AppendChild(doc.Body(), container)
	return doc, container
}

// Mount renders tree into an empty container and fails the test on error.
//
//	h := vtest.Mount(t, vdom.Comp(Counter, nil))
//	h.Click(h.Find("button"))
//	h.ExpectMarkup(`<button>1</button>`)
func Mount(t testing.TB, tree *vdom.VNode, opts ...reconcile.Option) *Harness {
	t.Helper()
	doc, container := newContainer()
	root, err := reconcile.AppendElement(doc, container, tree, opts...)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	h := &Harness{t: t, Doc: doc, Container: container, Root: root}
	h.ResetMutations()
	return h
}

// Hydrate parses markup into a container and hydrates it with tree.
func Hydrate(t testing.TB, markup string, tree *vdom.VNode, opts ...reconcile.Option) *Harness {
	t.Helper()
	doc, container := newContainer()
	if err := doc.SetInnerHTML(container, markup); err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	base := doc.Mutations()
	root, err := reconcile.HydrateElement(doc, container, tree, opts...)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	return &Harness{t: t, Doc: doc, Container: container, Root: root, base: base}
}

// Markup returns the serialized children of the container.
func (h *Harness) Markup() string {
	return dom.InnerHTML(h.Container)
}

// ExpectMarkup fails the test if the container markup is not want.
func (h *Harness) ExpectMarkup(want string) {
	h.t.Helper()
	if got := h.Markup(); got != want {
		h.t.Errorf("markup mismatch\n got: %s\nwant: %s", got, want)
	}
}

// Flush runs pending updates and fails the test on error.
func (h *Harness) Flush() {
	h.t.Helper()
	if err := h.Root.Flush(); err != nil {
		h.t.Fatalf("flush: %v", err)
	}
}

// Render patches the root to tree and fails the test on error.
func (h *Harness) Render(tree *vdom.VNode) {
	h.t.Helper()
	if err := h.Root.Render(tree); err != nil {
		h.t.Fatalf("render: %v", err)
	}
}

// ResetMutations starts a new mutation count.
func (h *Harness) ResetMutations() {
	h.base = h.Doc.Mutations()
}

// Mutations returns the number of DOM mutations since the last reset.
func (h *Harness) Mutations() uint64 {
	return h.Doc.Mutations() - h.base
}

// Record collects mutations until the returned function is called.
func (h *Harness) Record() func() []dom.Mutation {
	return h.Doc.Record()
}

// Find returns the first element with the given tag in the container, or
// nil.
func (h *Harness) Find(tag string) *html.Node {
	all := h.FindAll(tag)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// FindAll returns every element with the given tag in document order.
func (h *Harness) FindAll(tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(h.Container)
	return out
}

// FindByID returns the element whose id attribute is id, or nil.
func (h *Harness) FindByID(id string) *html.Node {
	return h.Doc.GetElementByID(id)
}

// FindRef returns the element whose data-ref is ref, or nil.
func (h *Harness) FindRef(ref string) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if v, ok := h.Doc.Attribute(c, vdom.RefAttr); ok && v == ref && c.Type == html.ElementNode {
				found = c
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(h.Container)
	return found
}

// Dispatch sends an event to n and flushes. It fails the test if n is nil
// or the flush fails.
func (h *Harness) Dispatch(n *html.Node, typ string, detail any) {
	h.t.Helper()
	if n == nil {
		h.t.Fatalf("dispatch %s: nil target", typ)
	}
	if _, err := h.Root.Dispatch(n, dom.NewEvent(typ, detail)); err != nil {
		h.t.Fatalf("dispatch %s: %v", typ, err)
	}
}

// Click dispatches a click event to n and flushes.
func (h *Harness) Click(n *html.Node) {
	h.t.Helper()
	h.Dispatch(n, "click", nil)
}

// Input dispatches an input event carrying value to n and flushes.
func (h *Harness) Input(n *html.Node, value string) {
	h.t.Helper()
	h.Dispatch(n, "input", value)
}
