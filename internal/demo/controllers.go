package demo

import (
	"time"

	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/dom"
)

// ToggleEvent is dispatched by a todo item to ask its list to toggle it.
// The event detail is the item ID.
const ToggleEvent = "todo-toggle"

// TodoSummary stamps the summary line with the time of the last change.
var TodoSummary = &controller.Type{
	Name: "todo-summary",
	New: func(b *controller.Bundle) (controller.Controller, error) {
		return &Summary{b: b}, nil
	},
}

// Summary is the TodoSummary controller.
type Summary struct {
	b       *controller.Bundle
	touched int
}

// Touch records a change made at t.
func (s *Summary) Touch(t time.Time) {
	s.touched++
	s.b.Doc.SetAttribute(s.b.Root, "data-updated", t.UTC().Format(time.RFC3339))
}

// Touched returns how many changes were recorded.
func (s *Summary) Touched() int { return s.touched }

// TodoList handles toggle requests from its items. It needs the summary
// bound inside it and the clock service.
var TodoList = &controller.Type{
	Name:     "todo-list",
	Requires: []*controller.Type{TodoSummary},
	Services: []*controller.ServiceType{ClockService},
	New: func(b *controller.Bundle) (controller.Controller, error) {
		l := &List{
			summary: controller.Get[*Summary](b, TodoSummary),
			clock:   controller.GetService[Clock](b, ClockService),
		}
		l.Update(b.Args)
		b.Listen(b.Root, ToggleEvent, l.onToggle)
		return l, nil
	},
}

// List is the TodoList controller.
type List struct {
	summary *Summary
	clock   Clock
	toggle  func(id int)
}

// Update implements controller.Updater.
func (l *List) Update(args controller.Args) {
	l.toggle, _ = args["toggle"].(func(int))
}

func (l *List) onToggle(e *dom.Event) {
	id, ok := e.Detail.(int)
	if !ok || l.toggle == nil {
		return
	}
	e.StopPropagation()
	l.toggle(id)
	l.summary.Touch(l.clock.Now())
}

// TodoItem is bound to every rendered item.
var TodoItem = &controller.Type{
	Name: "todo-item",
	New: func(b *controller.Bundle) (controller.Controller, error) {
		it := &Item{b: b}
		it.Update(b.Args)
		return it, nil
	},
}

// Item is the TodoItem controller.
type Item struct {
	b  *controller.Bundle
	id int
}

// ID returns the ID of the item the controller is bound to.
func (it *Item) ID() int { return it.id }

// Update implements controller.Updater. Items are matched by position, so
// a row can be handed a different item.
func (it *Item) Update(args controller.Args) {
	it.id, _ = args["id"].(int)
}

// Toggle asks the enclosing list to toggle the item.
func (it *Item) Toggle(*dom.Event) {
	it.b.Doc.Dispatch(it.b.Root, dom.NewEvent(ToggleEvent, it.id))
}
