// Package protocol implements the binary wire protocol between a live
// session and its browser.
//
// The server keeps the real document. The browser keeps a replica and
// sends events; the server dispatches them, flushes, and answers with the
// DOM mutations the flush produced.
//
// # Frames
//
// Every message is one frame: a type byte and a 4-byte big-endian payload
// length.
//
//   - FrameEvent (0x01): Client → Server event
//   - FrameMutations (0x02): Server → Client mutation batch
//   - FrameError (0x05): Error message
//
// # Encoding
//
//   - Varint: unsigned integers, 7 bits per byte (protobuf-style)
//   - Length-prefixed: strings prefixed with a varint length
//   - Big-endian: fixed-width integers
//
// # Node IDs
//
// Nodes are addressed by the numeric IDs of dom.Document. Both sides parse
// the same page and number its nodes in document order; nodes created
// later travel with their IDs inside Insert mutations.
//
// A Collector turns the observed mutations of a document into batches and
// a Mirror applies them:
//
//	c := protocol.NewCollector(doc, container)
//	// ... dispatch, flush ...
//	if b := c.Take(); b != nil {
//	    frame := protocol.NewFrame(protocol.FrameMutations, protocol.EncodeBatch(b))
//	}
package protocol
