package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator/canvas"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

func fullTemplate() *template.DynamicTemplate {
	return template.New(
		template.Heading{Level: 0},
		template.Paragraph{MaxNbChars: 800},
		template.Table{Rows: 3, Cols: 4},
		template.Picture{Width: 60, Height: 40},
		template.PageBreak{},
		template.Heading{Level: 2},
		template.Paragraph{MaxNbChars: 200},
	)
}

func TestStrategies(t *testing.T) {
	strategies := map[string]generator.Strategy{
		NameFpdf:   NewFpdfGenerator(FpdfConfig{}, nil),
		NameCanvas: NewCanvasGenerator(CanvasConfig{Config: canvas.Config{PageWidth: 300, PageHeight: 400}}, nil),
	}

	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			f, err := content.New(content.WithSeed(11))
			require.NoError(t, err)
			gen := template.NewGeneration(f, nil)

			data, err := s.Generate(context.Background(), fullTemplate(), gen)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
			assert.Len(t, gen.Transcript.Modifiers()[template.KindTable][2], 12)
			assert.NotEmpty(t, gen.Transcript.Content())
		})
	}
}

func TestPlainText(t *testing.T) {
	f, err := content.New(content.WithSeed(11))
	require.NoError(t, err)
	gen := template.NewGeneration(f, nil)

	data, err := NewFpdfGenerator(FpdfConfig{}, nil).Generate(context.Background(), template.Text("Grüße aus dem PDF"), gen)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, "Grüße aus dem PDF", gen.Transcript.Content())
}

func TestNilContent(t *testing.T) {
	strategies := map[string]generator.Strategy{
		NameFpdf:   NewFpdfGenerator(FpdfConfig{}, nil),
		NameCanvas: NewCanvasGenerator(CanvasConfig{}, nil),
	}
	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			f, err := content.New(content.WithSeed(11))
			require.NoError(t, err)
			gen := template.NewGeneration(f, nil)

			data, err := s.Generate(context.Background(), nil, gen)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
			assert.Empty(t, gen.Transcript.Content())
		})
	}
}

func TestUnsupportedPicture(t *testing.T) {
	f, err := content.New()
	require.NoError(t, err)

	tpl := template.New(template.Picture{Image: []byte("not an image")})
	_, err = NewFpdfGenerator(FpdfConfig{}, nil).Generate(context.Background(), tpl, template.NewGeneration(f, nil))
	assert.Error(t, err)
}

func TestRegistered(t *testing.T) {
	assert.Equal(t, []string{NameCanvas, NameFpdf}, generator.Names(generator.FamilyPDF))

	s, err := generator.New(generator.FamilyPDF, NameFpdf, map[string]any{"font_size": 10, "voice": "ignored"}, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(10), s.(*FpdfGenerator).cfg.FontSize)
}
