package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// OuterHTML serializes n and its subtree.
//
// Attributes keep their document order. An attribute with an empty value
// is written bare (checked, not checked=""), matching the server renderer.
func OuterHTML(n *html.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(&b, c)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if n.Parent != nil && n.Parent.Type == html.ElementNode && IsRawText(n.Parent.Data) {
			b.WriteString(n.Data)
			return
		}
		b.WriteString(EscapeText(n.Data))
	case html.CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(b, c)
		}
	case html.DoctypeNode:
		b.WriteString("<!DOCTYPE ")
		b.WriteString(n.Data)
		b.WriteString(">")
	case html.ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Data)
		for _, a := range n.Attr {
			WriteAttribute(b, a.Key, a.Val)
		}
		b.WriteByte('>')
		if IsVoidElement(n.Data) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteByte('>')
	}
}

// WriteAttribute writes a leading space and the serialized attribute.
// Empty values are written as a bare name.
func WriteAttribute(b *strings.Builder, key, val string) {
	b.WriteByte(' ')
	b.WriteString(key)
	if val == "" {
		return
	}
	b.WriteString(`="`)
	b.WriteString(EscapeAttr(val))
	b.WriteByte('"')
}

// TextContent returns the concatenated text of n's subtree.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			} else if c.Type == html.ElementNode {
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}
