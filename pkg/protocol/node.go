package protocol

import (
	"errors"
	"slices"
	"strings"

	"github.com/vango-dev/hydra/pkg/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MaxNodeDepth limits the nesting depth of decoded node trees.
const MaxNodeDepth = 256

// ErrMaxDepthExceeded is returned when a node tree nests deeper than
// MaxNodeDepth.
var ErrMaxDepthExceeded = errors.New("protocol: max depth exceeded")

// ErrInvalidNodeType is returned for an unknown node type byte.
var ErrInvalidNodeType = errors.New("protocol: invalid node type")

// NodeType identifies the type of a serialized node.
type NodeType uint8

const (
	NodeElement NodeType = 0x01
	NodeText    NodeType = 0x02
	NodeComment NodeType = 0x03
)

// Pair is a name/value pair of an attribute or live property.
type Pair struct {
	Name  string
	Value string
}

// NodeWire is a serialized DOM subtree. Every node carries the ID the
// server document knows it by.
type NodeWire struct {
	ID       uint64
	Type     NodeType
	Tag      string // elements
	Attrs    []Pair // elements, in document order
	Props    []Pair // elements, sorted by name
	Text     string // text and comments
	Children []*NodeWire
}

// NodeToWire serializes n and its subtree. Nodes other than elements,
// text and comments are skipped and yield nil.
func NodeToWire(doc *dom.Document, n *html.Node) *NodeWire {
	w := &NodeWire{ID: doc.ID(n)}
	switch n.Type {
	case html.ElementNode:
		w.Type = NodeElement
		w.Tag = n.Data
		for _, a := range n.Attr {
			w.Attrs = append(w.Attrs, Pair{Name: a.Key, Value: a.Val})
		}
		for name, v := range doc.Properties(n) {
			w.Props = append(w.Props, Pair{Name: name, Value: dom.PropertyString(v)})
		}
		slices.SortFunc(w.Props, func(a, b Pair) int { return strings.Compare(a.Name, b.Name) })
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if cw := NodeToWire(doc, c); cw != nil {
				w.Children = append(w.Children, cw)
			}
		}
	case html.TextNode:
		w.Type = NodeText
		w.Text = n.Data
	case html.CommentNode:
		w.Type = NodeComment
		w.Text = n.Data
	default:
		return nil
	}
	return w
}

// EncodeNodeTo encodes a node tree using the provided encoder.
func EncodeNodeTo(e *Encoder, w *NodeWire) {
	e.WriteByte(byte(w.Type))
	e.WriteUvarint(w.ID)

	switch w.Type {
	case NodeElement:
		e.WriteString(w.Tag)
		writePairs(e, w.Attrs)
		writePairs(e, w.Props)
		e.WriteUvarint(uint64(len(w.Children)))
		for _, c := range w.Children {
			EncodeNodeTo(e, c)
		}
	default:
		e.WriteString(w.Text)
	}
}

// DecodeNodeFrom decodes a node tree, enforcing MaxNodeDepth.
func DecodeNodeFrom(d *Decoder) (*NodeWire, error) {
	return decodeNode(d, 0)
}

func decodeNode(d *Decoder, depth int) (*NodeWire, error) {
	if depth > MaxNodeDepth {
		return nil, ErrMaxDepthExceeded
	}

	typ, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	w := &NodeWire{Type: NodeType(typ)}
	if w.ID, err = d.ReadUvarint(); err != nil {
		return nil, err
	}

	switch w.Type {
	case NodeElement:
		if w.Tag, err = d.ReadString(); err != nil {
			return nil, err
		}
		if w.Attrs, err = readPairs(d); err != nil {
			return nil, err
		}
		if w.Props, err = readPairs(d); err != nil {
			return nil, err
		}
		count, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			c, err := decodeNode(d, depth+1)
			if err != nil {
				return nil, err
			}
			w.Children = append(w.Children, c)
		}
	case NodeText, NodeComment:
		if w.Text, err = d.ReadString(); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidNodeType
	}
	return w, nil
}

// Build creates a detached html.Node tree from the wire form. visit is
// called for every created node.
func (w *NodeWire) Build(visit func(*NodeWire, *html.Node)) *html.Node {
	var n *html.Node
	switch w.Type {
	case NodeElement:
		n = &html.Node{Type: html.ElementNode, Data: w.Tag, DataAtom: atom.Lookup([]byte(w.Tag))}
		for _, a := range w.Attrs {
			n.Attr = append(n.Attr, html.Attribute{Key: a.Name, Val: a.Value})
		}
		for _, c := range w.Children {
			n.AppendChild(c.Build(visit))
		}
	case NodeText:
		n = &html.Node{Type: html.TextNode, Data: w.Text}
	default:
		n = &html.Node{Type: html.CommentNode, Data: w.Text}
	}
	if visit != nil {
		visit(w, n)
	}
	return n
}

func writePairs(e *Encoder, pairs []Pair) {
	e.WriteUvarint(uint64(len(pairs)))
	for _, p := range pairs {
		e.WriteString(p.Name)
		e.WriteString(p.Value)
	}
}

func readPairs(d *Decoder) ([]Pair, error) {
	count, err := d.ReadCollectionCount()
	if err != nil || count == 0 {
		return nil, err
	}
	pairs := make([]Pair, count)
	for i := range pairs {
		if pairs[i].Name, err = d.ReadString(); err != nil {
			return nil, err
		}
		if pairs[i].Value, err = d.ReadString(); err != nil {
			return nil, err
		}
	}
	return pairs, nil
}
