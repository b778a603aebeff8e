package vdom

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	herrors "github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/controller"
)

// Attribute markers written for controller bindings.
const (
	ControllerAttr = "data-controller"
	RefAttr        = "data-ref"
)

// liveProperties are applied as live DOM properties and never serialized.
var liveProperties = map[string]bool{
	"value":         true,
	"selectedIndex": true,
}

// IsLiveProperty reports whether name is a live-only property.
func IsLiveProperty(name string) bool {
	return liveProperties[name]
}

// Attribute is one serialized attribute.
type Attribute struct {
	Name  string
	Value string
}

// Resolved is the DOM-facing form of an element's props. Mount, patch,
// hydrate and the server renderer all derive what they write from it.
type Resolved struct {
	// Attrs are the attributes to be present, sorted by name.
	Attrs []Attribute

	// Live are live-only properties keyed by property name.
	Live map[string]any

	// Events maps event names ("click") to handlers.
	Events map[string]Handler

	// Controller is the controller binding, if any.
	Controller *controller.Binding
}

// Attr returns the serialized value of the attribute name.
func (r Resolved) Attr(name string) (string, bool) {
	i, ok := slices.BinarySearchFunc(r.Attrs, name, func(a Attribute, n string) int {
		return strings.Compare(a.Name, n)
	})
	if !ok {
		return "", false
	}
	return r.Attrs[i].Value, true
}

// Resolve applies the property-serialization rules to props.
//
// Bool(true) becomes an attribute with an empty value, Bool(false) and
// undefined values are absent. className and htmlFor map to class and for,
// underscores become hyphens. on* bindings and live properties are never
// attributes. A controller binding becomes data-controller and data-ref.
func Resolve(props Props) Resolved {
	var r Resolved
	for name, v := range props {
		if IsLiveProperty(name) {
			if lv, ok := liveValue(v); ok {
				if r.Live == nil {
					r.Live = make(map[string]any)
				}
				r.Live[name] = lv
			}
			continue
		}

		switch v.kind {
		case ValueUndefined:
		case ValueString:
			if !isEventName(name) {
				r.Attrs = append(r.Attrs, Attribute{AttrName(name), v.str})
			}
		case ValueNumber:
			if !isEventName(name) {
				r.Attrs = append(r.Attrs, Attribute{AttrName(name), FormatNumber(v.num)})
			}
		case ValueBool:
			if v.flag && !isEventName(name) {
				r.Attrs = append(r.Attrs, Attribute{AttrName(name), ""})
			}
		case ValueEvent:
			if v.handler == nil {
				continue
			}
			if r.Events == nil {
				r.Events = make(map[string]Handler)
			}
			r.Events[EventName(name)] = v.handler
		case ValueController:
			r.Controller = v.binding
		default:
			panic(herrors.New("E100").WithDetail(fmt.Sprintf("value kind %d for %q", v.kind, name)))
		}
	}

	if b := r.Controller; b != nil && b.Type != nil {
		r.Attrs = append(r.Attrs, Attribute{ControllerAttr, b.Type.Name})
		if b.Ref != "" {
			r.Attrs = append(r.Attrs, Attribute{RefAttr, b.Ref})
		}
	}

	slices.SortFunc(r.Attrs, func(a, b Attribute) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	})
	// class and className both map to class; the smaller value wins.
	r.Attrs = slices.CompactFunc(r.Attrs, func(a, b Attribute) bool { return a.Name == b.Name })
	return r
}

// AttrName maps a property name to its attribute name.
func AttrName(prop string) string {
	switch prop {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	}
	return strings.ReplaceAll(prop, "_", "-")
}

// EventName strips the "on" prefix from an event property name.
func EventName(prop string) string {
	if isEventName(prop) {
		return strings.ToLower(prop[2:])
	}
	return prop
}

func isEventName(prop string) bool {
	return len(prop) > 2 && strings.HasPrefix(prop, "on")
}

// FormatNumber formats a number attribute without exponent or trailing
// zeros.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func liveValue(v Value) (any, bool) {
	switch v.kind {
	case ValueUndefined:
		return nil, false
	case ValueString:
		return v.str, true
	case ValueNumber:
		return v.num, true
	case ValueBool:
		return v.flag, true
	case ValueEvent, ValueController:
		return nil, false
	default:
		panic(herrors.New("E100").WithDetail(fmt.Sprintf("value kind %d", v.kind)))
	}
}
