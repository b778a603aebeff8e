// Package reconcile renders virtual trees into a dom.Document and keeps
// them in sync as component state changes.
//
// A Root is created either by mounting a tree into an empty container or by
// hydrating markup a server renderer already put there:
//
//	root, err := reconcile.AppendElement(doc, doc.Body(), vdom.Comp(App, nil))
//	// or
//	root, err := reconcile.HydrateElement(doc, container, vdom.Comp(App, nil))
//
// Children are aligned by position only. Two nodes at the same position
// match when they are elements with the same tag, both text, or both empty
// slots; anything else is torn down and mounted fresh. Components and
// fragments are flattened away before alignment, so they never appear in
// the DOM.
//
// Component updates are never applied synchronously. They mark the
// component's state cell dirty and the scheduler re-renders the owning
// subtree on the next Flush, once per turn no matter how many updates were
// made.
//
// The engine is single-threaded. Use state.Loop to drive a Root from
// several goroutines.
package reconcile
