package protocol

import (
	"errors"
	"fmt"
	"io"

	"github.com/vango-dev/hydra/pkg/dom"
	"golang.org/x/net/html"
)

// Mirror errors.
var (
	ErrOutOfOrder  = errors.New("protocol: batch out of order")
	ErrUnknownNode = errors.New("protocol: unknown node")
)

// Mirror is a replica of a server document kept in sync by applying
// mutation batches.
//
// A mirror starts from the same page markup the server document was
// parsed from. Node IDs are assigned in document order, matching
// dom.ParseDocument, so both sides agree on them without a handshake.
type Mirror struct {
	root  *html.Node
	nodes map[uint64]*html.Node
	ids   map[*html.Node]uint64
	props map[*html.Node]map[string]string
	seq   uint64
}

// NewMirror parses page and numbers its nodes.
func NewMirror(page io.Reader) (*Mirror, error) {
	root, err := html.Parse(page)
	if err != nil {
		return nil, err
	}
	m := &Mirror{
		root:  root,
		nodes: make(map[uint64]*html.Node),
		ids:   make(map[*html.Node]uint64),
		props: make(map[*html.Node]map[string]string),
	}
	var next uint64
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		next++
		m.track(next, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return m, nil
}

func (m *Mirror) track(id uint64, n *html.Node) {
	m.nodes[id] = n
	m.ids[n] = id
}

func (m *Mirror) forget(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		m.forget(c)
	}
	delete(m.nodes, m.ids[n])
	delete(m.ids, n)
	delete(m.props, n)
}

// Root returns the document node of the replica.
func (m *Mirror) Root() *html.Node { return m.root }

// Node returns the node with the given ID, or nil.
func (m *Mirror) Node(id uint64) *html.Node { return m.nodes[id] }

// ID returns the ID of n, or 0 if n is not tracked.
func (m *Mirror) ID(n *html.Node) uint64 { return m.ids[n] }

// Property returns a live property of n.
func (m *Mirror) Property(n *html.Node, name string) (string, bool) {
	v, ok := m.props[n][name]
	return v, ok
}

// Seq returns the sequence number of the last applied batch.
func (m *Mirror) Seq() uint64 { return m.seq }

// ElementByID returns the first element whose id attribute is id.
func (m *Mirror) ElementByID(id string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "id" && a.Val == id {
					found = n
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(m.root)
	return found
}

// Apply applies a batch. Batches must be applied in sequence.
func (m *Mirror) Apply(b *Batch) error {
	if b.Seq != m.seq+1 {
		return fmt.Errorf("%w: got %d, want %d", ErrOutOfOrder, b.Seq, m.seq+1)
	}
	for i := range b.Mutations {
		if err := m.apply(&b.Mutations[i]); err != nil {
			return err
		}
	}
	m.seq = b.Seq
	return nil
}

func (m *Mirror) apply(mu *MutationWire) error {
	if mu.Kind == dom.MutationInsert {
		return m.insert(mu)
	}

	n := m.nodes[mu.Target]
	if n == nil {
		return fmt.Errorf("%w: %d", ErrUnknownNode, mu.Target)
	}

	switch mu.Kind {
	case dom.MutationRemove:
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		m.forget(n)
	case dom.MutationSetText:
		n.Data = mu.Value
	case dom.MutationSetAttribute:
		for i := range n.Attr {
			if n.Attr[i].Key == mu.Name {
				n.Attr[i].Val = mu.Value
				return nil
			}
		}
		n.Attr = append(n.Attr, html.Attribute{Key: mu.Name, Val: mu.Value})
	case dom.MutationRemoveAttribute:
		for i, a := range n.Attr {
			if a.Key == mu.Name {
				n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
				break
			}
		}
	case dom.MutationSetProperty:
		p := m.props[n]
		if p == nil {
			p = make(map[string]string)
			m.props[n] = p
		}
		p[mu.Name] = mu.Value
	case dom.MutationDeleteProperty:
		delete(m.props[n], mu.Name)
	default:
		return ErrInvalidMutation
	}
	return nil
}

func (m *Mirror) insert(mu *MutationWire) error {
	parent := m.nodes[mu.Parent]
	if parent == nil {
		return fmt.Errorf("%w: parent %d", ErrUnknownNode, mu.Parent)
	}
	var ref *html.Node
	if mu.Before != 0 {
		if ref = m.nodes[mu.Before]; ref == nil {
			return fmt.Errorf("%w: sibling %d", ErrUnknownNode, mu.Before)
		}
	}

	n := m.nodes[mu.Target]
	switch {
	case n != nil:
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	case mu.Node == nil:
		return fmt.Errorf("%w: %d", ErrUnknownNode, mu.Target)
	default:
		n = mu.Node.Build(func(w *NodeWire, built *html.Node) {
			m.track(w.ID, built)
			for _, p := range w.Props {
				if m.props[built] == nil {
					m.props[built] = make(map[string]string)
				}
				m.props[built][p.Name] = p.Value
			}
		})
	}
	parent.InsertBefore(n, ref)
	return nil
}
