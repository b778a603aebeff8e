// Package demo holds the demo apps rendered, hydrated and served by the
// hydra command.
//
// Each App builds a fresh component tree. The todo app binds controllers:
// every item gets a TodoItem, the list a TodoList that requires the
// TodoSummary bound inside it and the clock service.
package demo
