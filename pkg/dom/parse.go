package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseDocument parses a complete HTML document.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var head, body *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Head:
				head = n
			case atom.Body:
				body = n
			}
		}
		for c := n.FirstChild; c != nil && (head == nil || body == nil); c = c.NextSibling {
			find(c)
		}
	}
	find(root)
	d := newDocument(root, head, body)
	d.assignIDs(root)
	return d, nil
}

// SetInnerHTML replaces the children of n with the parsed markup.
func (d *Document) SetInnerHTML(n *html.Node, markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), fragmentContext(n))
	if err != nil {
		return err
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		d.RemoveChild(n, c)
		d.Release(c)
		c = next
	}
	for _, c := range nodes {
		d.assignIDs(c)
		d.AppendChild(n, c)
	}
	return nil
}

// ParseFragment parses markup as the children of a <body> without attaching it.
func (d *Document) ParseFragment(markup string) ([]*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), fragmentContext(d.body))
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		d.assignIDs(n)
	}
	return nodes, nil
}

func fragmentContext(n *html.Node) *html.Node {
	if n != nil && n.Type == html.ElementNode {
		return &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom}
	}
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

func (d *Document) assignIDs(n *html.Node) {
	d.ID(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.assignIDs(c)
	}
}
