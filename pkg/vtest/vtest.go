package vtest

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/render"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// RenderToString renders node the way the server does. Render errors
// yield "".
//
//	html := vtest.RenderToString(vdom.Comp(Counter, nil))
func RenderToString(node *vdom.VNode) string {
	out, err := render.NewRenderer(render.RendererConfig{}).RenderToString(node)
	if err != nil {
		return ""
	}
	return out
}

// ExpectContains fails the test unless the rendered node contains expected.
//
//	vtest.ExpectContains(t, vdom.Comp(Greeting, "Ada"), "Hello, Ada")
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	if out := RenderToString(node); !strings.Contains(out, expected) {
		t.Errorf("rendered output lacks %q:\n%s", expected, truncate(out))
	}
}

// ExpectNotContains fails the test if the rendered node contains unexpected.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	if out := RenderToString(node); strings.Contains(out, unexpected) {
		t.Errorf("rendered output contains %q:\n%s", unexpected, truncate(out))
	}
}

// ExpectElement fails the test unless the rendered markup, parsed back,
// holds an element with tag.
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	if len(parsed(t, node, tag)) == 0 {
		t.Errorf("rendered output has no <%s>:\n%s", tag, truncate(RenderToString(node)))
	}
}

// ExpectAttribute fails the test unless some parsed element carries
// attr="value".
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	for _, n := range parsed(t, node, "") {
		for _, a := range n.Attr {
			if a.Key == attr && a.Val == value {
				return
			}
		}
	}
	t.Errorf("rendered output has no %s=%q:\n%s", attr, value, truncate(RenderToString(node)))
}

// ExpectRoundTrip fails the test unless hydrating the rendered markup of
// node gives the same DOM as mounting node.
func ExpectRoundTrip(t testing.TB, node *vdom.VNode) {
	t.Helper()
	mounted := Mount(t, node)
	defer mounted.Root.Unmount()
	hydrated := Hydrate(t, RenderToString(node), node)
	defer hydrated.Root.Unmount()

	if got, want := hydrated.Markup(), mounted.Markup(); got != want {
		t.Errorf("hydrated markup differs from mounted markup:\nhydrated %s\nmounted  %s", got, want)
	}
}

// parsed returns the elements of the rendered node with tag, or all of them
// when tag is empty.
func parsed(t testing.TB, node *vdom.VNode, tag string) []*html.Node {
	t.Helper()
	nodes, err := dom.NewDocument().ParseFragment(RenderToString(node))
	if err != nil {
		t.Fatalf("parse rendered output: %v", err)
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (tag == "" || n.Data == tag) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

func truncate(s string) string {
	const max = 500
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
