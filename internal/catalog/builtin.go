package catalog

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/bin"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/data"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/docx"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/eml"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/epub"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/frompath"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/generic"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/html"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/image"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/markdown"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/mp3"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/pdf"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/randomdir"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/tar"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/txt"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/zip"
)

func init() {
	for _, b := range builtins() {
		DefaultRegistry.MustRegister(b)
	}
}

type fileGenerator[O any] interface {
	Generate(ctx context.Context, opts O) (*fakefile.File, error)
}

// bind decodes the spec options into O, lets apply fill the fields that
// cannot come from a map, and returns a function running the provider.
func bind[O any, P fileGenerator[O]](newProvider func(*providers.Env) P, apply func(*O, Spec)) func(Spec) (providers.GenerateFunc, error) {
	return func(spec Spec) (providers.GenerateFunc, error) {
		var opts O
		if err := DecodeOptions(spec.Options, &opts); err != nil {
			return nil, err
		}
		apply(&opts, spec)
		return func(ctx context.Context, env *providers.Env) (*fakefile.File, error) {
			return newProvider(env).Generate(ctx, opts)
		}, nil
	}
}

// DecodeOptions decodes provider options. Unknown keys are rejected so that
// typos in recipes and flags surface.
func DecodeOptions(options map[string]any, out any) error {
	if len(options) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(options); err != nil {
		return fmt.Errorf("invalid provider options: %w", err)
	}
	return nil
}

func builtins() []Builder {
	return []Builder{
		{
			Name: txt.Name, Extensions: []string{txt.Extension}, Content: true,
			Description: "plain text",
			Build:       bind(txt.New, func(o *txt.Options, s Spec) { o.Template = s.Template }),
		},
		{
			Name: docx.Name, Extensions: []string{docx.Extension}, Content: true,
			Description: "Word document",
			Build:       bind(docx.New, func(o *docx.Options, s Spec) { o.Template = s.Template }),
		},
		{
			Name: markdown.Name, Extensions: []string{markdown.Extension}, Content: true,
			Description: "Markdown with front matter",
			Build:       bind(markdown.New, func(o *markdown.Options, s Spec) { o.Template = s.Template }),
		},
		{
			Name: html.Name, Extensions: []string{html.Extension}, Content: true,
			Description: "HTML page",
			Build:       bind(html.New, func(o *html.Options, s Spec) { o.Template = s.Template }),
		},
		{
			Name: epub.Name, Extensions: []string{epub.Extension}, Content: true,
			Description: "EPUB book, one chapter per page break",
			Build:       bind(epub.New, func(o *epub.Options, s Spec) { o.Template = s.Template }),
		},
		{
			Name: pdf.Name, Extensions: []string{pdf.Extension}, Content: true,
			Family:      generator.FamilyPDF,
			Description: "PDF document",
			Build:       bind(pdf.New, func(o *pdf.Options, s Spec) { o.Template = s.Template }),
		},
		{
			Name: image.Name, Extensions: image.Formats, Content: true,
			Family:      generator.FamilyImage,
			Description: "raster image of rendered content",
			Build:       bind(image.New, func(o *image.Options, s Spec) { o.Template = s.Template }),
		},
		{
			Name: mp3.Name, Extensions: []string{mp3.Extension}, Content: true,
			Family:      generator.FamilyMP3,
			Description: "spoken text (speech API)",
			Build:       bind(mp3.New, func(o *mp3.Options, s Spec) { o.Template = s.Template }),
		},
		{
			Name: data.Name, Extensions: data.Formats,
			Description: "rows of templated columns",
			Build:       bind(data.New, func(*data.Options, Spec) {}),
		},
		{
			Name: bin.Name, Extensions: []string{bin.Extension},
			Description: "random bytes",
			Build:       bind(bin.New, func(*bin.Options, Spec) {}),
		},
		{
			Name: generic.Name, Extensions: []string{"*"},
			Description: "any extension, content rendered from a {{token}} template",
			Build:       bind(generic.New, func(*generic.Options, Spec) {}),
		},
		{
			Name: frompath.Name, Extensions: []string{"*"},
			Description: "copy of an existing file",
			Build:       bind(frompath.New, func(*frompath.Options, Spec) {}),
		},
		{
			Name: randomdir.Name, Extensions: []string{"*"},
			Description: "copy of a random file of a directory",
			Build:       bind(randomdir.New, func(*randomdir.Options, Spec) {}),
		},
		{
			Name: zip.Name, Extensions: []string{zip.Extension}, Container: true,
			Description: "ZIP archive",
			Build:       bind(zip.New, func(o *zip.Options, s Spec) { o.Create = s.Create }),
		},
		{
			Name: tar.Name, Container: true,
			Extensions: []string{
				tar.Extension(tar.CompressionNone),
				tar.Extension(tar.CompressionGzip),
				tar.Extension(tar.CompressionZstd),
			},
			Description: "TAR archive, optionally compressed",
			Build:       bind(tar.New, func(o *tar.Options, s Spec) { o.Create = s.Create }),
		},
		{
			Name: eml.Name, Extensions: []string{eml.Extension}, Content: true, Container: true,
			Description: "e-mail message with attachments",
			Build: bind(eml.New, func(o *eml.Options, s Spec) {
				o.Template = s.Template
				o.Create = s.Create
			}),
		},
	}
}
