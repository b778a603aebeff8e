package dom

import (
	"strings"

	"golang.org/x/net/html/atom"
)

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;",
	)
	// Attribute values also keep whitespace that parsing would normalize.
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;",
		"\n", "&#10;", "\r", "&#13;", "\t", "&#9;",
	)
)

// EscapeText escapes s for HTML content.
func EscapeText(s string) string { return textEscaper.Replace(s) }

// EscapeAttr escapes s for a double-quoted attribute value.
func EscapeAttr(s string) string { return attrEscaper.Replace(s) }

// IsVoidElement reports whether tag has no content and no end tag.
func IsVoidElement(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Link, atom.Meta, atom.Param, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

// IsRawText reports whether the text of tag is written without escaping.
func IsRawText(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Script, atom.Style:
		return true
	}
	return false
}
