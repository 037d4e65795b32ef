package providers

import (
	"github.com/nerdneilsfield/go-faker-file/internal/document"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// RenderDocument runs c through a fresh writer of the given format and
// returns the rendered bytes with the generation state.
func (e *Env) RenderDocument(format document.Format, title string, c template.Content) ([]byte, *template.Generation, error) {
	w, err := document.NewWriter(format, document.WriterOptions{
		Title:  title,
		Logger: e.logger(),
	})
	if err != nil {
		return nil, nil, err
	}
	g, err := e.Render(c, w)
	if err != nil {
		return nil, nil, err
	}
	payload, err := w.Bytes()
	if err != nil {
		return nil, nil, err
	}
	return payload, g, nil
}
