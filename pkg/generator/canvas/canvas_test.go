package canvas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

func smallPage() Config {
	return Config{PageWidth: 200, PageHeight: 120, Margin: 10, FontSize: 10, LineHeight: 12, Spacing: 2, PictureSize: 50}
}

func TestParagraphOverflowStartsNewPage(t *testing.T) {
	c, err := New(smallPage())
	require.NoError(t, err)

	text := strings.Repeat("lorem ipsum dolor sit amet ", 40)
	pos, err := c.AddParagraph(text, template.Position{})
	require.NoError(t, err)

	pages := c.Pages()
	assert.Greater(t, len(pages), 1)
	for _, p := range pages {
		assert.Equal(t, 200, p.Bounds().Dx())
		assert.Equal(t, 120, p.Bounds().Dy())
	}
	assert.LessOrEqual(t, int(pos.Y), 120)
}

func TestPageBreakResetsCursor(t *testing.T) {
	c, err := New(smallPage())
	require.NoError(t, err)

	pos, err := c.AddParagraph("hello", template.Position{})
	require.NoError(t, err)
	assert.Greater(t, pos.Y, float64(10))

	pos, err = c.AddPageBreak(pos)
	require.NoError(t, err)
	assert.Equal(t, template.Position{X: 10, Y: 10}, pos)
	assert.Len(t, c.Pages(), 2)
}

func TestPictureMovesToNextPageWhenNoRoom(t *testing.T) {
	f, err := content.New(content.WithSeed(1))
	require.NoError(t, err)
	img, err := f.Image(400, 400)
	require.NoError(t, err)

	c, err := New(smallPage())
	require.NoError(t, err)

	pos, err := c.AddPicture(img, template.Position{Y: 100})
	require.NoError(t, err)
	assert.Len(t, c.Pages(), 2)
	// 缩放到 50x50，放在新页顶部
	assert.Equal(t, float64(10+50+2), pos.Y)
}

func TestTableAndHeadings(t *testing.T) {
	c, err := New(smallPage())
	require.NoError(t, err)

	pos := template.Position{}
	for level := 0; level <= 6; level++ {
		pos, err = c.AddHeading("Title", level, pos)
		require.NoError(t, err)
	}
	pos, err = c.AddTable([][]string{{"a", "b"}, {"c", "a very long cell value that will not fit"}}, pos)
	require.NoError(t, err)
	assert.Greater(t, pos.Y, float64(0))
}

func TestRunTemplateOnCanvas(t *testing.T) {
	f, err := content.New(content.WithSeed(3))
	require.NoError(t, err)
	g := template.NewGeneration(f, nil)

	c, err := New(smallPage())
	require.NoError(t, err)

	tpl := template.New(
		template.Heading{Level: 1},
		template.Paragraph{MaxNbChars: 600},
		template.Table{Rows: 3, Cols: 2},
		template.Picture{Width: 30, Height: 30},
		template.PageBreak{},
		template.Paragraph{MaxNbChars: 100},
	)
	_, err = template.Execute(tpl, c, g)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(c.Pages()), 2)

	stacked := Stack(c.Pages())
	assert.Equal(t, 120*len(c.Pages()), stacked.Bounds().Dy())
}

func TestTooSmallPage(t *testing.T) {
	_, err := New(Config{PageWidth: 30, PageHeight: 30, Margin: 20})
	assert.Error(t, err)
}
