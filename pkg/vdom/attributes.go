package vdom

import (
	"strings"

	"github.com/vango-dev/hydra/pkg/controller"
)

// controllerProp is the property key of a controller binding.
const controllerProp = "controller"

// Attr is a single property of an element.
type Attr struct {
	Key   string
	Value Value
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Prop creates a property from any supported Go value.
func Prop(key string, value any) Attr {
	return Attr{Key: key, Value: ValueOf(value)}
}

func str(key, value string) Attr { return Attr{Key: key, Value: StringValue(value)} }
func flag(key string, on bool) Attr {
	return Attr{Key: key, Value: BoolValue(on)}
}
func num(key string, n float64) Attr { return Attr{Key: key, Value: NumberValue(n)} }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return str("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return str("className", strings.Join(classes, " ")) }

// ClassIf sets the class attribute when cond is true and leaves it
// undefined otherwise.
func ClassIf(cond bool, class string) Attr {
	if !cond {
		return Attr{Key: "className", Value: Undefined}
	}
	return Class(class)
}

// StyleAttr sets the style attribute (named to avoid conflict with Style element).
func StyleAttr(style string) Attr { return str("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return str("data-"+key, value) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return str("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return str("aria_label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return str("aria_hidden", boolString(hidden)) }

// AriaExpanded sets the aria-expanded attribute.
func AriaExpanded(expanded bool) Attr { return str("aria_expanded", boolString(expanded)) }

// AriaLive sets the aria-live attribute.
func AriaLive(mode string) Attr { return str("aria_live", mode) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return num("tabindex", float64(index)) }

// Hidden sets the boolean hidden attribute.
func Hidden(hidden bool) Attr { return flag("hidden", hidden) }

// TitleAttr sets the title attribute (named to avoid conflict with Title element).
func TitleAttr(title string) Attr { return str("title", title) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return str("lang", lang) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return str("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return str("target", target) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return str("rel", rel) }

// Form attributes

// Name sets the name attribute.
func Name(name string) Attr { return str("name", name) }

// ValueAttr sets the live value property of form controls (named to avoid
// conflict with the Value type). It is never serialized as an attribute.
func ValueAttr(value string) Attr { return str("value", value) }

// SelectedIndex sets the live selectedIndex property of a <select>.
func SelectedIndex(i int) Attr { return num("selectedIndex", float64(i)) }

// Type sets the type attribute.
func Type(t string) Attr { return str("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return str("placeholder", text) }

// Disabled sets the boolean disabled attribute.
func Disabled(disabled bool) Attr { return flag("disabled", disabled) }

// Readonly sets the boolean readonly attribute.
func Readonly(readonly bool) Attr { return flag("readonly", readonly) }

// Required sets the boolean required attribute.
func Required(required bool) Attr { return flag("required", required) }

// Checked sets the boolean checked attribute.
func Checked(checked bool) Attr { return flag("checked", checked) }

// Selected sets the boolean selected attribute.
func Selected(selected bool) Attr { return flag("selected", selected) }

// Autofocus sets the boolean autofocus attribute.
func Autofocus(on bool) Attr { return flag("autofocus", on) }

// Min sets the min attribute.
func Min(n float64) Attr { return num("min", n) }

// Max sets the max attribute.
func Max(n float64) Attr { return num("max", n) }

// Step sets the step attribute.
func Step(n float64) Attr { return num("step", n) }

// For sets the for attribute of a label.
func For(id string) Attr { return str("htmlFor", id) }

// Media attributes

// Src sets the src attribute.
func Src(url string) Attr { return str("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return str("alt", text) }

// Width sets the width attribute.
func Width(n float64) Attr { return num("width", n) }

// Height sets the height attribute.
func Height(n float64) Attr { return num("height", n) }

// Open sets the boolean open attribute of <details> and <dialog>.
func Open(open bool) Attr { return flag("open", open) }

// Controller bindings

// BindOption configures a controller binding.
type BindOption func(*controller.Binding)

// On maps a DOM event to a controller method.
func On(event, method string) BindOption {
	return func(b *controller.Binding) {
		if b.On == nil {
			b.On = make(map[string]string)
		}
		b.On[event] = method
	}
}

// Ref names the binding; the name is written as data-ref.
func Ref(name string) BindOption {
	return func(b *controller.Binding) {
		b.Ref = name
	}
}

// Bind attaches a controller of type t to the element.
func Bind(t *controller.Type, args controller.Args, opts ...BindOption) Attr {
	b := controller.Binding{Type: t, Args: args}
	for _, opt := range opts {
		opt(&b)
	}
	return Attr{Key: controllerProp, Value: ControllerValue(b)}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
