package dom

import (
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the real DOM the engine renders into.
//
// The node tree is plain golang.org/x/net/html nodes. Document adds what
// markup parsing does not model: stable node IDs, live properties (form
// values), event listeners and a mutation observer. Every mutation made
// through a Document is reported to its observers.
//
// A Document is not safe for concurrent mutation. Observer registration is.
type Document struct {
	root *html.Node
	head *html.Node
	body *html.Node

	ids    map[*html.Node]uint64
	byID   map[uint64]*html.Node
	nextID uint64

	props     map[*html.Node]map[string]any
	listeners map[*html.Node]map[string][]*listener
	owners    map[*html.Node]any

	mutations uint64

	observersMu sync.RWMutex
	observers   map[uint64]func(Mutation)
	nextObs     uint64
}

// NewDocument creates an empty document with <html>, <head> and <body>.
func NewDocument() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := newElement("html")
	head := newElement("head")
	body := newElement("body")
	root.AppendChild(htmlEl)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	return newDocument(root, head, body)
}

func newDocument(root, head, body *html.Node) *Document {
	return &Document{
		root:      root,
		head:      head,
		body:      body,
		ids:       make(map[*html.Node]uint64),
		byID:      make(map[uint64]*html.Node),
		props:     make(map[*html.Node]map[string]any),
		listeners: make(map[*html.Node]map[string][]*listener),
		owners:    make(map[*html.Node]any),
		observers: make(map[uint64]func(Mutation)),
	}
}

func newElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Head returns the <head> element.
func (d *Document) Head() *html.Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.body }

// Contains reports whether n is attached to this document's tree.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// GetElementByID returns the first attached element whose id attribute is
// id, or nil.
func (d *Document) GetElementByID(id string) *html.Node {
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode {
			if v, ok := d.Attribute(n, "id"); ok && v == id {
				return n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	return find(d.root)
}

// ID returns the stable numeric ID of n, assigning one on first use.
func (d *Document) ID(n *html.Node) uint64 {
	if n == nil {
		return 0
	}
	if id, ok := d.ids[n]; ok {
		return id
	}
	d.nextID++
	d.ids[n] = d.nextID
	d.byID[d.nextID] = n
	return d.nextID
}

// NodeByID returns the node with the given ID, or nil.
func (d *Document) NodeByID(id uint64) *html.Node {
	return d.byID[id]
}

// CreateElement creates a detached element node.
func (d *Document) CreateElement(tag string) *html.Node {
	n := newElement(tag)
	d.ID(n)
	return n
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(data string) *html.Node {
	n := &html.Node{Type: html.TextNode, Data: data}
	d.ID(n)
	return n
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(data string) *html.Node {
	n := &html.Node{Type: html.CommentNode, Data: data}
	d.ID(n)
	return n
}

// AppendChild appends child to parent, detaching it from any previous parent.
func (d *Document) AppendChild(parent, child *html.Node) {
	d.InsertBefore(parent, child, nil)
}

// InsertBefore inserts child into parent before ref. A nil ref appends.
func (d *Document) InsertBefore(parent, child, ref *html.Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	parent.InsertBefore(child, ref)
	d.emit(Mutation{
		Kind:   MutationInsert,
		Target: d.ID(child),
		Parent: d.ID(parent),
		Before: d.ID(ref),
		Node:   child,
	})
}

// RemoveChild detaches child from parent.
func (d *Document) RemoveChild(parent, child *html.Node) {
	if child.Parent != parent {
		return
	}
	parent.RemoveChild(child)
	d.emit(Mutation{
		Kind:   MutationRemove,
		Target: d.ID(child),
		Parent: d.ID(parent),
		Node:   child,
	})
}

// ReplaceChild puts next where old was.
func (d *Document) ReplaceChild(parent, next, old *html.Node) {
	d.InsertBefore(parent, next, old)
	d.RemoveChild(parent, old)
}

// Claim records owner as the exclusive owner of n. It fails if n already
// has an owner.
func (d *Document) Claim(n *html.Node, owner any) bool {
	if _, taken := d.owners[n]; taken {
		return false
	}
	d.owners[n] = owner
	return true
}

// Owner returns the owner claimed for n, or nil.
func (d *Document) Owner(n *html.Node) any { return d.owners[n] }

// Unclaim drops the owner of n if it is owner.
func (d *Document) Unclaim(n *html.Node, owner any) {
	if d.owners[n] == owner {
		delete(d.owners, n)
	}
}

// Release drops listeners, properties and IDs held for n and its subtree.
// It does not detach n.
func (d *Document) Release(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.Release(c)
	}
	delete(d.listeners, n)
	delete(d.props, n)
	delete(d.owners, n)
	if id, ok := d.ids[n]; ok {
		delete(d.byID, id)
		delete(d.ids, n)
	}
}

// SetText replaces the data of a text or comment node.
func (d *Document) SetText(n *html.Node, data string) {
	if n.Data == data {
		return
	}
	n.Data = data
	d.emit(Mutation{Kind: MutationSetText, Target: d.ID(n), Value: data, Node: n})
}

// Attribute returns the value of the attribute key and whether it is present.
func (d *Document) Attribute(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute key is present on n.
func (d *Document) HasAttribute(n *html.Node, key string) bool {
	_, ok := d.Attribute(n, key)
	return ok
}

// SetAttribute sets key to val, appending the attribute if it is new.
// Setting an attribute to its current value is not a mutation.
func (d *Document) SetAttribute(n *html.Node, key, val string) {
	for i := range n.Attr {
		a := &n.Attr[i]
		if a.Namespace == "" && a.Key == key {
			if a.Val == val {
				return
			}
			a.Val = val
			d.emit(Mutation{Kind: MutationSetAttribute, Target: d.ID(n), Name: key, Value: val, Node: n})
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	d.emit(Mutation{Kind: MutationSetAttribute, Target: d.ID(n), Name: key, Value: val, Node: n})
}

// RemoveAttribute removes key from n if present.
func (d *Document) RemoveAttribute(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			d.emit(Mutation{Kind: MutationRemoveAttribute, Target: d.ID(n), Name: key, Node: n})
			return
		}
	}
}

// Property returns a live (non-attribute) property of n.
func (d *Document) Property(n *html.Node, name string) (any, bool) {
	v, ok := d.props[n][name]
	return v, ok
}

// Properties returns a copy of the live properties of n.
func (d *Document) Properties(n *html.Node) map[string]any {
	m := d.props[n]
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// PropertyString formats a live property value the way mutations carry it.
func PropertyString(v any) string { return propertyString(v) }

// SetProperty sets a live property. Setting an equal value is not a mutation.
func (d *Document) SetProperty(n *html.Node, name string, value any) {
	m := d.props[n]
	if m == nil {
		m = make(map[string]any)
		d.props[n] = m
	}
	if old, ok := m[name]; ok && old == value {
		return
	}
	m[name] = value
	d.emit(Mutation{Kind: MutationSetProperty, Target: d.ID(n), Name: name, Value: propertyString(value), Node: n})
}

// DeleteProperty clears a live property.
func (d *Document) DeleteProperty(n *html.Node, name string) {
	m := d.props[n]
	if _, ok := m[name]; !ok {
		return
	}
	delete(m, name)
	d.emit(Mutation{Kind: MutationDeleteProperty, Target: d.ID(n), Name: name, Node: n})
}

// Mutations returns the number of mutations made through this document.
func (d *Document) Mutations() uint64 {
	return d.mutations
}
