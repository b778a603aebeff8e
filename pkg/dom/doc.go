// Package dom provides the real DOM that hydra renders into.
//
// A Document wraps a golang.org/x/net/html node tree and adds the browser
// facilities that markup alone cannot represent:
//
//   - stable node IDs (ID, NodeByID) for addressing nodes over the wire
//   - live properties such as form values (SetProperty)
//   - event listeners with bubbling dispatch (AddEventListener, Dispatch)
//   - a mutation observer (Observe, Record, Mutations)
//
// Server-rendered markup is loaded with SetInnerHTML or ParseDocument and
// serialized back with OuterHTML and InnerHTML. The serializer writes
// empty-valued attributes bare, matching the server renderer in pkg/render,
// so the markup of a hydrated tree and a freshly mounted tree compare
// byte for byte.
package dom
