package render

import (
	"io"
	"strings"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// Separator is written between two adjacent text nodes so that they stay
// separate when the markup is parsed. The hydrator removes it.
const Separator = "<!---->"

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// NoSeparators drops the comment written between adjacent text nodes.
	// Markup rendered this way cannot be hydrated reliably.
	NoSeparators bool
}

// Renderer handles server-side rendering of VNode trees to HTML.
//
// Components are rendered with unset state. Attributes follow the same
// serialization rules as the client (vdom.Resolve), so hydrating the output
// of a fresh render produces no attribute or text corrections.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var b strings.Builder
	r.render(&b, node)
	return b.String(), nil
}

// RenderToWriter writes a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	var b strings.Builder
	r.render(&b, node)
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) render(b *strings.Builder, node *vdom.VNode) {
	st := &textState{}
	r.renderItems(b, vdom.Flatten([]*vdom.VNode{node}, nil, nil), "", st)
}

// textState remembers whether the last node written at the current level
// was text.
type textState struct {
	afterText bool
}

func (r *Renderer) renderItems(b *strings.Builder, items []vdom.Item, parentTag string, st *textState) {
	for _, it := range items {
		if it.Empty() {
			continue
		}
		switch it.Node.Kind {
		case vdom.KindText:
			r.renderText(b, it.Node.Text, parentTag, st)
		case vdom.KindElement:
			r.renderElement(b, it.Node)
			st.afterText = false
		default:
			vdom.BadKind(it.Node.Kind)
		}
	}
}

// renderText writes escaped text. Empty text writes nothing and does not
// reset adjacency.
func (r *Renderer) renderText(b *strings.Builder, text, parentTag string, st *textState) {
	if text == "" {
		return
	}
	if st.afterText && !r.config.NoSeparators {
		b.WriteString(Separator)
	}
	if dom.IsRawText(parentTag) {
		b.WriteString(text)
	} else {
		b.WriteString(dom.EscapeText(text))
	}
	st.afterText = true
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(b *strings.Builder, node *vdom.VNode) {
	b.WriteByte('<')
	b.WriteString(node.Tag)
	for _, a := range vdom.Resolve(node.Props).Attrs {
		dom.WriteAttribute(b, a.Name, a.Value)
	}
	b.WriteByte('>')

	if vdom.IsVoidElement(node.Tag) {
		return
	}

	r.renderItems(b, vdom.Flatten(node.Children, nil, nil), node.Tag, &textState{})

	b.WriteString("</")
	b.WriteString(node.Tag)
	b.WriteByte('>')
}
