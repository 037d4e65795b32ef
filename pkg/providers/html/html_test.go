package html

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-faker-file/internal/test"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

func TestGenerate(t *testing.T) {
	env := test.NewEnv(t)

	f, err := New(env).Generate(context.Background(), Options{
		ContentOptions: providers.ContentOptions{
			Template: template.New(
				template.Heading{Level: 0, Content: "Welcome"},
				template.Paragraph{MaxNbChars: 120},
				template.Table{Rows: 2, Cols: 2},
				template.Picture{Width: 16, Height: 16},
			),
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(f.Path, ".html"))

	data, err := os.ReadFile(f.Data.Filename)
	require.NoError(t, err)

	page, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, "Welcome", page.Find("title").Text())
	assert.Equal(t, "Welcome", page.Find("body h1").First().Text())
	assert.Equal(t, 2, page.Find("table tr").Length())
	assert.Equal(t, 1, page.Find("img").Length())
	assert.Equal(t, []string{"Image added"}, f.Data.ContentModifiers[template.KindPicture][3])
}

func TestGenerateTitleOption(t *testing.T) {
	env := test.NewEnv(t)

	raw, err := New(env).GenerateRaw(context.Background(), Options{
		Title:          "Landing",
		ContentOptions: providers.ContentOptions{MaxNbChars: 100},
	})
	require.NoError(t, err)

	page, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw.Content)))
	require.NoError(t, err)
	assert.Equal(t, "Landing", page.Find("title").Text())
	assert.Equal(t, 1, page.Find("body p").Length())
}
