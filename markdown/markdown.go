// Package markdown renders markdown record fields to HTML wherever a
// page record carries prose rather than plain values.
package markdown

import (
	"bytes"
	"io"

	"github.com/DeedleFake/pagegen/internal/bufpool"
	"github.com/russross/blackfriday/v2"
)

// An errWriter is a writer that writes until a single error has been
// returned by the underlying writer, at which point it simply returns
// that error.
type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) Write(data []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}

	n, err := w.w.Write(data)
	w.err = err
	return n, err
}

// Render renders a parsed markdown tree to an io.Writer. It essentially
// replicates the internals of blackfriday.Run, which doesn't export
// its rendering loop.
func Render(w io.Writer, node *blackfriday.Node, renderer blackfriday.Renderer) error {
	ew := errWriter{w: w}

	renderer.RenderHeader(&ew, node)
	node.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		return renderer.RenderNode(&ew, node, entering)
	})
	renderer.RenderFooter(&ew, node)

	return ew.err
}

// HTML converts a markdown fragment to an HTML fragment using the
// common extensions. Surrounding whitespace in the output is trimmed
// so the result can be dropped into a template inline.
func HTML(src string) (string, error) {
	md := blackfriday.New(blackfriday.WithExtensions(blackfriday.CommonExtensions))
	node := md.Parse([]byte(src))

	buf := bufpool.Get()
	defer bufpool.Put(buf)

	err := Render(buf, node, blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{}))
	if err != nil {
		return "", err
	}
	return string(bytes.TrimSpace(buf.Bytes())), nil
}
