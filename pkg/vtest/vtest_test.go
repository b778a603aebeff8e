package vtest_test

import (
	"testing"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/vdom"
	"github.com/vango-dev/hydra/pkg/vtest"
)

func counter(_ any, s vdom.State, update vdom.Update) *vdom.VNode {
	n := vdom.Use(s, 0)
	return vdom.Button(
		vdom.OnClick(func(*dom.Event) { update(n + 1) }),
		vdom.Textf("Count: %d", n),
	)
}

func TestRenderToString(t *testing.T) {
	node := vdom.Div(
		vdom.Class("container"),
		vdom.H1("Hello World"),
	)

	html := vtest.RenderToString(node)
	want := `<div class="container"><h1>Hello World</h1></div>`
	if html != want {
		t.Errorf("RenderToString() = %q, want %q", html, want)
	}
}

func TestExpectHelpers(t *testing.T) {
	node := vdom.Div(vdom.Class("btn-primary"), vdom.Span("Welcome Admin"))

	vtest.ExpectContains(t, node, "Welcome Admin")
	vtest.ExpectNotContains(t, node, "Login")
	vtest.ExpectElement(t, node, "span")
	vtest.ExpectAttribute(t, node, "class", "btn-primary")
}

func TestMount_ClickCounter(t *testing.T) {
	h := vtest.Mount(t, vdom.Comp(counter, nil))
	h.ExpectMarkup(`<button>Count: 0</button>`)

	h.Click(h.Find("button"))
	h.ExpectMarkup(`<button>Count: 1</button>`)

	if n := h.Mutations(); n != 1 {
		t.Errorf("click made %d mutations, want 1", n)
	}
}

func TestHydrate_CountsMutations(t *testing.T) {
	h := vtest.Hydrate(t, `<button>Count: 0</button>`, vdom.Comp(counter, nil))
	if n := h.Mutations(); n != 0 {
		t.Errorf("hydrating matching markup made %d mutations, want 0", n)
	}

	h.Click(h.Find("button"))
	h.ExpectMarkup(`<button>Count: 1</button>`)
}

func TestFindRef(t *testing.T) {
	h := vtest.Mount(t, vdom.Div(
		vdom.Span(vdom.Prop("data-ref", "a"), "A"),
		vdom.Span(vdom.Prop("data-ref", "b"), "B"),
	))

	n := h.FindRef("b")
	if n == nil {
		t.Fatal("FindRef(b) = nil")
	}
	if got := dom.TextContent(n); got != "B" {
		t.Errorf("FindRef(b) text = %q, want B", got)
	}
	if h.FindRef("missing") != nil {
		t.Error("FindRef(missing) should be nil")
	}
}

func TestExpectRoundTrip(t *testing.T) {
	vtest.ExpectRoundTrip(t, vdom.Div(
		vdom.Comp(counter, nil),
		vdom.P("a", "b"),
		vdom.Fragment(vdom.Span("c"), nil),
		vdom.Input(vdom.Checked(true)),
	))
}
