package vdom

import (
	"fmt"

	herrors "github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/dom"
)

// IsVoidElement reports whether tag has no children and no end tag.
func IsVoidElement(tag string) bool { return dom.IsVoidElement(tag) }

// H creates an element with an arbitrary tag.
func H(tag string, args ...any) *VNode { return createElement(tag, args) }

// createElement creates a new VNode with the given tag and arguments.
//
// Arguments can be: nil (ignored), Attr, []Attr, EventHandler,
// controller.Binding, *VNode, []*VNode, string, int or float64. A nil *VNode
// is kept as an empty slot.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}
	node.Children = appendArgs(node, node.Children, args)
	return node
}

func appendArgs(node *VNode, children []*VNode, args []any) []*VNode {
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if v.Key != "" && node != nil {
				node.Props[v.Key] = v.Value
			}
		case []Attr:
			for _, a := range v {
				if a.Key != "" && node != nil {
					node.Props[a.Key] = a.Value
				}
			}
		case EventHandler:
			if node != nil {
				node.Props[v.Event] = EventValue(v.Handler)
			}
		case controller.Binding:
			if node != nil {
				node.Props[controllerProp] = ControllerValue(v)
			}
		case *VNode:
			children = append(children, v)
		case []*VNode:
			children = append(children, v...)
		case string:
			children = append(children, Text(v))
		case int:
			children = append(children, Number(float64(v)))
		case float64:
			children = append(children, Number(v))
		default:
			panic(herrors.New("E101").WithDetail(fmt.Sprintf("unsupported child %T", arg)))
		}
	}
	return children
}

// Document structure elements

func Html(args ...any) *VNode  { return createElement("html", args) }
func Head(args ...any) *VNode  { return createElement("head", args) }
func Body(args ...any) *VNode  { return createElement("body", args) }
func Title(args ...any) *VNode { return createElement("title", args) }
func Meta(args ...any) *VNode  { return createElement("meta", args) }
func Link(args ...any) *VNode  { return createElement("link", args) }

// Content sectioning elements

func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Article(args ...any) *VNode { return createElement("article", args) }
func Aside(args ...any) *VNode   { return createElement("aside", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }

// Text content elements

func Div(args ...any) *VNode        { return createElement("div", args) }
func P(args ...any) *VNode          { return createElement("p", args) }
func Span(args ...any) *VNode       { return createElement("span", args) }
func Pre(args ...any) *VNode        { return createElement("pre", args) }
func Blockquote(args ...any) *VNode { return createElement("blockquote", args) }
func Ul(args ...any) *VNode         { return createElement("ul", args) }
func Ol(args ...any) *VNode         { return createElement("ol", args) }
func Li(args ...any) *VNode         { return createElement("li", args) }
func Hr(args ...any) *VNode         { return createElement("hr", args) }

// Inline text semantics

func A(args ...any) *VNode      { return createElement("a", args) }
func Strong(args ...any) *VNode { return createElement("strong", args) }
func Em(args ...any) *VNode     { return createElement("em", args) }
func B(args ...any) *VNode      { return createElement("b", args) }
func I(args ...any) *VNode      { return createElement("i", args) }
func Small(args ...any) *VNode  { return createElement("small", args) }
func Code(args ...any) *VNode   { return createElement("code", args) }
func Br(args ...any) *VNode     { return createElement("br", args) }

// Form elements

func Form(args ...any) *VNode     { return createElement("form", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }
func Fieldset(args ...any) *VNode { return createElement("fieldset", args) }
func Legend(args ...any) *VNode   { return createElement("legend", args) }
func Progress(args ...any) *VNode { return createElement("progress", args) }

// Table elements

func Table(args ...any) *VNode { return createElement("table", args) }
func Thead(args ...any) *VNode { return createElement("thead", args) }
func Tbody(args ...any) *VNode { return createElement("tbody", args) }
func Tr(args ...any) *VNode    { return createElement("tr", args) }
func Th(args ...any) *VNode    { return createElement("th", args) }
func Td(args ...any) *VNode    { return createElement("td", args) }

// Media elements

func Img(args ...any) *VNode    { return createElement("img", args) }
func Canvas(args ...any) *VNode { return createElement("canvas", args) }
func Svg(args ...any) *VNode    { return createElement("svg", args) }

// Interactive elements

func Details(args ...any) *VNode { return createElement("details", args) }
func Summary(args ...any) *VNode { return createElement("summary", args) }
func Dialog(args ...any) *VNode  { return createElement("dialog", args) }
