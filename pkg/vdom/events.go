package vdom

// EventHandler binds a handler to a DOM event.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler Handler
}

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler Handler) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnEvent handles events of an arbitrary type.
func OnEvent(name string, handler Handler) EventHandler { return event(name, handler) }

// Mouse events

// OnClick handles click events.
func OnClick(handler Handler) EventHandler { return event("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler Handler) EventHandler { return event("dblclick", handler) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(handler Handler) EventHandler { return event("mouseenter", handler) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(handler Handler) EventHandler { return event("mouseleave", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler Handler) EventHandler { return event("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler Handler) EventHandler { return event("keyup", handler) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput(handler Handler) EventHandler { return event("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler Handler) EventHandler { return event("change", handler) }

// OnSubmit handles form submission.
func OnSubmit(handler Handler) EventHandler { return event("submit", handler) }

// Focus events

// OnFocus handles focus events.
func OnFocus(handler Handler) EventHandler { return event("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler Handler) EventHandler { return event("blur", handler) }
