package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// DefaultContainerID is the id of the element the body is rendered into.
const DefaultContainerID = "app"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode rendered inside the container element.
	Body *vdom.VNode

	// Title is the page title
	Title string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Scripts contains paths of deferred scripts
	Scripts []string

	// ContainerID is the id of the container element.
	// Defaults to DefaultContainerID.
	ContainerID string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string // name attribute
	Content  string // content attribute
	Property string // property attribute (for OpenGraph)
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if err := r.renderHead(w, page); err != nil {
		return err
	}
	return r.renderBody(w, page)
}

// renderHead writes everything up to and including </head>.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", dom.EscapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `  <meta charset="utf-8">`+"\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", dom.EscapeText(page.Title)); err != nil {
			return err
		}
	}
	for _, meta := range page.Meta {
		if err := renderMetaTag(w, meta); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n", dom.EscapeAttr(href)); err != nil {
			return err
		}
	}
	for _, src := range page.Scripts {
		if _, err := fmt.Fprintf(w, `  <script defer src="%s"></script>`+"\n", dom.EscapeAttr(src)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}

// renderBody writes the body with the rendered tree and closes the
// document.
func (r *Renderer) renderBody(w io.Writer, page PageData) error {
	id := page.ContainerID
	if id == "" {
		id = DefaultContainerID
	}
	if _, err := fmt.Fprintf(w, "<body>\n<div id=\"%s\">", dom.EscapeAttr(id)); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</div>\n</body>\n</html>\n")
	return err
}

func renderMetaTag(w io.Writer, meta MetaTag) error {
	if _, err := io.WriteString(w, "  <meta"); err != nil {
		return err
	}
	if meta.Name != "" {
		if _, err := fmt.Fprintf(w, ` name="%s"`, dom.EscapeAttr(meta.Name)); err != nil {
			return err
		}
	}
	if meta.Property != "" {
		if _, err := fmt.Fprintf(w, ` property="%s"`, dom.EscapeAttr(meta.Property)); err != nil {
			return err
		}
	}
	if meta.Content != "" {
		if _, err := fmt.Fprintf(w, ` content="%s"`, dom.EscapeAttr(meta.Content)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">\n")
	return err
}
