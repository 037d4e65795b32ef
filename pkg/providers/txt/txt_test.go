package txt

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-faker-file/internal/test"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

func TestGenerate(t *testing.T) {
	env := test.NewEnv(t)
	ctx := context.Background()

	f, err := New(env).Generate(ctx, Options{})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(f.Path, ".txt"))
	assert.True(t, strings.HasPrefix(filepath.Base(f.Path), "tmp"))
	assert.NotEmpty(t, f.Data.Content)
	assert.LessOrEqual(t, utf8.RuneCountInString(f.Data.Content), 10000)

	got, ok := env.Registry.Search(f.Path)
	require.True(t, ok)
	assert.Same(t, f, got)

	data, err := os.ReadFile(f.Data.Filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), strings.Split(f.Data.Content, "\n")[0])
}

func TestGenerateBasenameAndContent(t *testing.T) {
	env := test.NewEnv(t)

	f, err := New(env).Generate(context.Background(), Options{
		FileOptions:    providers.FileOptions{Basename: "report"},
		ContentOptions: providers.ContentOptions{Content: "Dear {{name}}, hello."},
	})
	require.NoError(t, err)

	assert.Equal(t, "report.txt", filepath.Base(f.Path))
	assert.True(t, strings.HasPrefix(f.Data.Content, "Dear "))
	assert.True(t, strings.HasSuffix(f.Data.Content, ", hello."))
	assert.NotContains(t, f.Data.Content, "{{")
}

func TestGenerateTemplate(t *testing.T) {
	env := test.NewEnv(t)

	tpl := template.New(
		template.Heading{Level: 1, Content: "Inventory"},
		template.Paragraph{MaxNbChars: 50},
		template.Table{Rows: 2, Cols: 2},
	)
	f, err := New(env).Generate(context.Background(), Options{
		ContentOptions: providers.ContentOptions{Template: tpl},
	})
	require.NoError(t, err)

	mods := f.Data.ContentModifiers
	assert.Equal(t, []string{"Inventory"}, mods[template.KindHeading][0])
	require.Len(t, mods[template.KindParagraph][1], 1)
	assert.LessOrEqual(t, utf8.RuneCountInString(mods[template.KindParagraph][1][0]), 50)
	assert.Len(t, mods[template.KindTable][2], 4)
	assert.True(t, strings.HasPrefix(f.Data.Content, "Inventory\n"))
}

func TestGenerateRaw(t *testing.T) {
	env := test.NewEnv(t)

	raw, err := New(env).GenerateRaw(context.Background(), Options{
		ContentOptions: providers.ContentOptions{Content: "café"},
		Encoding:       "iso-8859-1",
	})
	require.NoError(t, err)

	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9, '\n'}, raw.Content)
	assert.Equal(t, "café", raw.Data.Content)
	assert.Zero(t, env.Registry.Len())
	assert.Empty(t, raw.Data.Filename)
}

func TestGenerateUnknownEncoding(t *testing.T) {
	env := test.NewEnv(t)

	_, err := New(env).Generate(context.Background(), Options{Encoding: "no-such-charset"})
	require.Error(t, err)
	assert.Zero(t, env.Registry.Len())
}

func TestInner(t *testing.T) {
	env := test.NewEnv(t)
	ce, err := env.Composer()
	require.NoError(t, err)

	f, err := Inner(Options{FileOptions: providers.FileOptions{Basename: "inner"}})(context.Background(), ce)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(env.Scratch.Dir(), "inner.txt"), f.Data.Filename)
	assert.Zero(t, env.Registry.Len())
}
