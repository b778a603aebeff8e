package vdom

import (
	"fmt"

	herrors "github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/dom"
)

// ValueKind is the discriminator of a property value.
type ValueKind uint8

const (
	ValueUndefined  ValueKind = iota // absent
	ValueString                      // attribute text
	ValueNumber                      // numeric attribute
	ValueBool                        // boolean attribute
	ValueEvent                       // event binding
	ValueController                  // controller binding
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValueUndefined:
		return "Undefined"
	case ValueString:
		return "String"
	case ValueNumber:
		return "Number"
	case ValueBool:
		return "Bool"
	case ValueEvent:
		return "Event"
	case ValueController:
		return "Controller"
	default:
		return "Unknown"
	}
}

// Handler handles a DOM event.
type Handler = dom.Listener

// Value is a property value. The zero Value is undefined.
type Value struct {
	kind    ValueKind
	str     string
	num     float64
	flag    bool
	handler Handler
	binding *controller.Binding
}

// Undefined is the absent value.
var Undefined = Value{}

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: ValueString, str: s} }

// NumberValue returns a numeric value.
func NumberValue(n float64) Value { return Value{kind: ValueNumber, num: n} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{kind: ValueBool, flag: b} }

// EventValue returns an event binding.
func EventValue(h Handler) Value { return Value{kind: ValueEvent, handler: h} }

// ControllerValue returns a controller binding.
func ControllerValue(b controller.Binding) Value {
	return Value{kind: ValueController, binding: &b}
}

// ValueOf converts a Go value to a Value. Unsupported types panic.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Undefined
	case Value:
		return x
	case string:
		return StringValue(x)
	case bool:
		return BoolValue(x)
	case int:
		return NumberValue(float64(x))
	case int64:
		return NumberValue(float64(x))
	case float32:
		return NumberValue(float64(x))
	case float64:
		return NumberValue(x)
	case Handler:
		return EventValue(x)
	case func(*dom.Event):
		return EventValue(x)
	case controller.Binding:
		return ControllerValue(x)
	case *controller.Binding:
		if x == nil {
			return Undefined
		}
		return ControllerValue(*x)
	default:
		panic(herrors.New("E101").WithDetail(fmt.Sprintf("unsupported property value %T", v)))
	}
}

// Kind returns the value kind.
func (v Value) Kind() ValueKind { return v.kind }

// Str returns the string payload.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload.
func (v Value) Num() float64 { return v.num }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.flag }

// Handler returns the handler of an event binding.
func (v Value) Handler() Handler { return v.handler }

// Binding returns the controller binding, or nil.
func (v Value) Binding() *controller.Binding { return v.binding }

// IsUndefined reports whether v is absent.
func (v Value) IsUndefined() bool { return v.kind == ValueUndefined }

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.kind {
	case ValueUndefined:
		return "undefined"
	case ValueString:
		return fmt.Sprintf("%q", v.str)
	case ValueNumber:
		return FormatNumber(v.num)
	case ValueBool:
		if v.flag {
			return "true"
		}
		return "false"
	case ValueEvent:
		return "<event>"
	case ValueController:
		return "<controller " + v.binding.Type.String() + ">"
	default:
		panic(herrors.New("E100").WithDetail(fmt.Sprintf("value kind %d", v.kind)))
	}
}
