// Package render provides server-side rendering of vdom trees.
//
// The output is the markup the hydrator expects: attributes are produced by
// the same serialization rules the client uses (sorted, booleans bare,
// live-only properties and event bindings omitted, controller bindings as
// data-controller), and an empty comment separates adjacent text nodes so
// HTML parsing does not merge them.
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(vdom.Comp(App, nil))
//
// # Full Page Rendering
//
//	page := render.PageData{
//	    Body:  vdom.Comp(App, nil),
//	    Title: "My Page",
//	}
//	err := renderer.RenderPage(w, page)
//
// The body is rendered inside <div id="app"> so the client can hydrate that
// element.
//
// # Streaming
//
// StreamingRenderer flushes the head before rendering the body:
//
//	sr := render.NewStreamingRenderer(w, render.RendererConfig{})
//	err := sr.RenderPage(page)
//
// Components are rendered with unset state; the first client render after
// hydration is what applies real state.
package render
