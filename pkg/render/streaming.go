package render

import (
	"io"
	"net/http"
)

// StreamingRenderer writes a page in two chunks: the head, so the client can
// start fetching stylesheets and scripts, then the body. The output is
// byte-identical to Renderer.RenderPage.
type StreamingRenderer struct {
	*Renderer
	w     io.Writer
	flush func()
}

// NewStreamingRenderer returns a renderer writing to w. Chunks are flushed
// when w is an http.Flusher; otherwise they are only written.
func NewStreamingRenderer(w io.Writer, config RendererConfig) *StreamingRenderer {
	s := &StreamingRenderer{Renderer: NewRenderer(config), w: w, flush: func() {}}
	if f, ok := w.(http.Flusher); ok {
		s.flush = f.Flush
	}
	return s
}

// RenderPage writes and flushes the head, then the body.
func (s *StreamingRenderer) RenderPage(page PageData) error {
	for _, section := range []func(io.Writer, PageData) error{s.renderHead, s.renderBody} {
		if err := section(s.w, page); err != nil {
			return err
		}
		s.flush()
	}
	return nil
}

// FlushableWriter is an http.Flusher over any writer that counts flushes.
type FlushableWriter struct {
	io.Writer
	FlushCount int
}

func (w *FlushableWriter) Flush() { w.FlushCount++ }
