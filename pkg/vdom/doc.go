// Package vdom provides the virtual node model the engine renders from.
//
// Trees are built with element functions and attribute helpers:
//
//	vdom.Div(vdom.Class("card"),
//	    vdom.H1("Title"),
//	    vdom.If(open, vdom.P("Body")),
//	    vdom.Button(vdom.OnClick(toggle), "Toggle"),
//	)
//
// Property values are a closed set of kinds (see ValueKind). Resolve turns
// an element's props into the attributes, live properties, event handlers
// and controller binding that mount, patch, hydration and the server
// renderer all use, so server markup and client DOM agree byte for byte.
//
// Components are plain functions of args and state. Flatten expands them
// and splices fragments into a flat sequence of host items; a nil child
// stays in that sequence as an empty slot.
package vdom
