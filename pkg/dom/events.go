package dom

import "golang.org/x/net/html"

// Event is a synthetic DOM event.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node

	// Detail carries event data (input value, key, etc.).
	Detail any

	stopped   bool
	prevented bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string, detail any) *Event {
	return &Event{Type: typ, Detail: detail}
}

// StopPropagation stops the event from bubbling further.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Value returns Detail as a string when it is one.
func (e *Event) Value() string {
	s, _ := e.Detail.(string)
	return s
}

// Listener handles an event.
type Listener func(*Event)

type listener struct {
	fn      Listener
	removed bool
}

// AddEventListener registers fn for events of type typ on n.
// The returned function removes the listener; calling it twice is harmless.
func (d *Document) AddEventListener(n *html.Node, typ string, fn Listener) func() {
	byType := d.listeners[n]
	if byType == nil {
		byType = make(map[string][]*listener)
		d.listeners[n] = byType
	}
	l := &listener{fn: fn}
	byType[typ] = append(byType[typ], l)

	return func() {
		if l.removed {
			return
		}
		l.removed = true
		list := d.listeners[n][typ]
		for i, other := range list {
			if other == l {
				d.listeners[n][typ] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

// ListenerCount returns how many listeners of type typ are registered on n.
func (d *Document) ListenerCount(n *html.Node, typ string) int {
	return len(d.listeners[n][typ])
}

// Dispatch delivers ev to target and then bubbles it through the ancestors
// until a listener stops propagation. It returns false if a listener
// called PreventDefault.
func (d *Document) Dispatch(target *html.Node, ev *Event) bool {
	ev.Target = target
	for n := target; n != nil && !ev.stopped; n = n.Parent {
		list := d.listeners[n][ev.Type]
		if len(list) == 0 {
			continue
		}
		ev.CurrentTarget = n
		// Listeners added during dispatch do not see this event.
		snapshot := append([]*listener(nil), list...)
		for _, l := range snapshot {
			if l.removed {
				continue
			}
			l.fn(ev)
		}
	}
	ev.CurrentTarget = nil
	return !ev.prevented
}
