package image

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-faker-file/internal/test"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator/canvas"
	imagegen "github.com/nerdneilsfield/go-faker-file/pkg/generator/image"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

func TestGenerateFormats(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"", "png"},
		{"jpeg", "jpg"},
		{"gif", "gif"},
		{"bmp", "bmp"},
		{"TIF", "tiff"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			env := test.NewEnv(t)

			f, err := New(env).Generate(context.Background(), Options{
				Format:         tt.format,
				ContentOptions: providers.ContentOptions{MaxNbChars: 200},
				StrategyOptions: providers.StrategyOptions{
					GeneratorOptions: map[string]any{"page_width": 300, "page_height": 200},
				},
			})
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(f.Path, "."+tt.ext))
			assert.Equal(t, tt.ext, f.Data.Extra["format"])

			data, err := os.ReadFile(f.Data.Filename)
			require.NoError(t, err)
			img, err := imaging.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 300, img.Bounds().Dx())
		})
	}
}

func TestGenerateTemplatePages(t *testing.T) {
	env := test.NewEnv(t)

	raw, err := New(env).GenerateRaw(context.Background(), Options{
		ContentOptions: providers.ContentOptions{Template: template.New(
			template.Heading{Level: 1, Content: "Scan"},
			template.PageBreak{},
			template.Paragraph{MaxNbChars: 60},
		)},
		StrategyOptions: providers.StrategyOptions{
			GeneratorOptions: map[string]any{"page_width": 200, "page_height": 150},
		},
	})
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(raw.Content))
	require.NoError(t, err)
	// 两页纵向拼接
	assert.Equal(t, 300, img.Bounds().Dy())
	assert.Equal(t, "Scan", raw.Data.ContentModifiers[template.KindHeading][0][0])
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	env := test.NewEnv(t)

	_, err := New(env).Generate(context.Background(), Options{Format: "webp"})
	require.Error(t, err)
	assert.Zero(t, env.Registry.Len())
}

// opaqueStrategy 不报告输出格式的策略
type opaqueStrategy struct {
	generator.Base
}

func TestStrategyInstanceFormat(t *testing.T) {
	gif, err := imagegen.NewGenerator(imagegen.Config{
		Config: canvas.Config{PageWidth: 300, PageHeight: 200},
		Format: "gif",
	}, nil)
	require.NoError(t, err)

	t.Run("extension follows strategy", func(t *testing.T) {
		env := test.NewEnv(t)
		f, err := New(env).Generate(context.Background(), Options{
			ContentOptions:  providers.ContentOptions{MaxNbChars: 40},
			StrategyOptions: providers.StrategyOptions{Strategy: gif},
		})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(f.Path, ".gif"))
		assert.Equal(t, "gif", f.Data.Extra["format"])

		data, err := os.ReadFile(f.Data.Filename)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("GIF8")))
	})

	t.Run("matching format", func(t *testing.T) {
		raw, err := New(test.NewEnv(t)).GenerateRaw(context.Background(), Options{
			Format:          "GIF",
			ContentOptions:  providers.ContentOptions{MaxNbChars: 40},
			StrategyOptions: providers.StrategyOptions{Strategy: gif},
		})
		require.NoError(t, err)
		assert.Equal(t, "gif", raw.Data.Extra["format"])
	})

	t.Run("mismatch rejected", func(t *testing.T) {
		env := test.NewEnv(t)
		_, err := New(env).Generate(context.Background(), Options{
			Format:          "png",
			StrategyOptions: providers.StrategyOptions{Strategy: gif},
		})
		require.ErrorIs(t, err, ErrFormatMismatch)
		assert.Zero(t, env.Registry.Len())
	})

	t.Run("opaque strategy needs format", func(t *testing.T) {
		env := test.NewEnv(t)
		_, err := New(env).Generate(context.Background(), Options{
			StrategyOptions: providers.StrategyOptions{Strategy: opaqueStrategy{}},
		})
		require.ErrorContains(t, err, "set format explicitly")

		_, err = New(env).Generate(context.Background(), Options{
			Format:          "bmp",
			StrategyOptions: providers.StrategyOptions{Strategy: opaqueStrategy{}},
		})
		require.ErrorIs(t, err, generator.ErrNotImplemented)
		assert.Zero(t, env.Registry.Len())
	})
}
