package epub

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-faker-file/internal/test"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

func entryNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func hasSuffix(names []string, suffix string) bool {
	for _, n := range names {
		if strings.HasSuffix(n, suffix) {
			return true
		}
	}
	return false
}

func TestGenerateChapters(t *testing.T) {
	env := test.NewEnv(t)

	f, err := New(env).Generate(context.Background(), Options{
		ContentOptions: providers.ContentOptions{
			Template: template.New(
				template.Heading{Level: 0, Content: "Book one"},
				template.Paragraph{MaxNbChars: 200},
				template.PageBreak{},
				template.Heading{Level: 1},
				template.Picture{Width: 32, Height: 32},
				template.Table{Rows: 2, Cols: 2},
			),
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(f.Path, ".epub"))

	assert.Equal(t, "Book one", f.Data.Extra["title"])
	assert.Equal(t, 2, f.Data.Extra["chapters"])
	assert.NotEmpty(t, f.Data.Extra["author"])

	data, err := os.ReadFile(f.Data.Filename)
	require.NoError(t, err)
	names := entryNames(t, data)
	assert.Equal(t, "mimetype", names[0])
	assert.True(t, hasSuffix(names, "chapter001.xhtml"))
	assert.True(t, hasSuffix(names, "chapter002.xhtml"))
	assert.True(t, hasSuffix(names, "image1.png"))
}

func TestGenerateRawDefault(t *testing.T) {
	env := test.NewEnv(t)

	raw, err := New(env).GenerateRaw(context.Background(), Options{
		Title:          "Plain",
		Author:         "Jane Roe",
		ContentOptions: providers.ContentOptions{MaxNbChars: 500},
	})
	require.NoError(t, err)

	assert.Equal(t, "Plain", raw.Data.Extra["title"])
	assert.Equal(t, "Jane Roe", raw.Data.Extra["author"])
	assert.Equal(t, 1, raw.Data.Extra["chapters"])
	assert.True(t, hasSuffix(entryNames(t, raw.Content), "chapter001.xhtml"))
	assert.Zero(t, env.Registry.Len())
}

func TestGenerateEmptyTemplate(t *testing.T) {
	env := test.NewEnv(t)

	raw, err := New(env).GenerateRaw(context.Background(), Options{
		ContentOptions: providers.ContentOptions{Template: template.New(template.PageBreak{})},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, raw.Data.Extra["chapters"])
	assert.Empty(t, raw.Data.Content)
}
