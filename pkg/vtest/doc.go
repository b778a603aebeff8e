// Package vtest provides testing helpers for hydra components.
//
// # Harness
//
// Mount and Hydrate render a tree into a fresh document and return a
// Harness for driving it:
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, vdom.Comp(Counter, nil))
//	    h.Click(h.Find("button"))
//	    h.ExpectMarkup(`<button>Count: 1</button>`)
//	}
//
// Mutations counts DOM changes since the last ResetMutations, which makes
// "this update touched exactly one text node" assertions cheap:
//
//	h.ResetMutations()
//	h.Render(sameTree)
//	if n := h.Mutations(); n != 0 {
//	    t.Errorf("re-render made %d mutations", n)
//	}
//
// # Render Assertions
//
// Assert on server-rendered HTML output:
//
//	vtest.ExpectContains(t, vdom.Comp(Greeting, "Ada"), "Hello, Ada")
//	vtest.ExpectNotContains(t, node, "Login")
package vtest
