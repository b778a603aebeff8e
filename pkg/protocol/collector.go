package protocol

import (
	"sync"

	"github.com/vango-dev/hydra/pkg/dom"
	"golang.org/x/net/html"
)

// Collector observes a document and keeps the mutations a remote replica
// of root's subtree needs.
//
// Changes to detached nodes are dropped: a detached subtree reaches the
// replica as one Insert carrying its state at insertion time.
type Collector struct {
	doc  *dom.Document
	root *html.Node
	stop func()

	mu      sync.Mutex
	pending []MutationWire
	seq     uint64
}

// NewCollector starts collecting mutations under root.
func NewCollector(doc *dom.Document, root *html.Node) *Collector {
	c := &Collector{doc: doc, root: root}
	c.stop = doc.Observe(c.observe)
	return c
}

func (c *Collector) observe(m dom.Mutation) {
	w := MutationWire{
		Kind:   m.Kind,
		Target: m.Target,
		Parent: m.Parent,
		Before: m.Before,
		Name:   m.Name,
		Value:  m.Value,
	}

	switch m.Kind {
	case dom.MutationInsert:
		if !c.within(m.Node) {
			return
		}
		w.Node = NodeToWire(c.doc, m.Node)
	case dom.MutationRemove:
		if !c.within(c.doc.NodeByID(m.Parent)) {
			return
		}
	default:
		if !c.within(m.Node) {
			return
		}
	}

	c.mu.Lock()
	c.pending = append(c.pending, w)
	c.mu.Unlock()
}

func (c *Collector) within(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == c.root {
			return true
		}
	}
	return false
}

// Pending returns the number of collected mutations not yet taken.
func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Take returns the collected mutations as the next batch, or nil if there
// are none.
func (c *Collector) Take() *Batch {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return nil
	}
	c.seq++
	b := &Batch{Seq: c.seq, Mutations: c.pending}
	c.pending = nil
	return b
}

// Close stops observing the document.
func (c *Collector) Close() {
	c.stop()
}
