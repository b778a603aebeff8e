package demo

import (
	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// Toggle shows and hides content.
func Toggle(_ any, s vdom.State, update vdom.Update) *vdom.VNode {
	open := vdom.Use(s, false)

	return vdom.Div(
		vdom.Class("toggle"),
		vdom.Button(
			vdom.ID("toggle"),
			vdom.AriaExpanded(open),
			vdom.OnClick(func(*dom.Event) { update(!open) }),
			vdom.IfElse(open, vdom.Text("Hide"), vdom.Text("Show")),
		),
		vdom.If(open, vdom.Text("Hi")),
		vdom.Span(vdom.ID("details"), vdom.Hidden(!open), "Details"),
		vdom.Input(vdom.ID("name"), vdom.Disabled(!open)),
	)
}
