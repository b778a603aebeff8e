// Package server serves an app over HTTP and keeps it live over a
// WebSocket.
//
// GET / renders a page with a fresh session id in a meta tag. The client
// opens WSPath?session=<id>; the server then parses the exact page it
// served, hydrates the app against it and replicates every later DOM
// change as protocol mutation batches. Client events arrive as event
// frames addressed by protocol node id:
//
//	srv, err := server.New(&server.Config{
//	    App:      func() *vdom.VNode { return vdom.Comp(Counter, 0) },
//	    Registry: prometheus.NewRegistry(),
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.ListenAndServe(ctx)
//
// Each session runs its engine on its own state.Loop, so handlers and
// flushes of one session never run concurrently.
package server
