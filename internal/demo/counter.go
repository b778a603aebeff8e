package demo

import (
	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// Counter renders a count with buttons to change it. args is the start
// value.
func Counter(args any, s vdom.State, update vdom.Update) *vdom.VNode {
	start, _ := args.(int)
	n := vdom.Use(s, start)

	return vdom.Div(
		vdom.Class("counter"),
		vdom.Button(vdom.ID("dec"), vdom.OnClick(func(*dom.Event) { update(n - 1) }), "-"),
		vdom.Span(vdom.ID("count"), "Count: ", n),
		vdom.Button(vdom.ID("inc"), vdom.OnClick(func(*dom.Event) { update(n + 1) }), "+"),
	)
}
