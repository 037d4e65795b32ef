// Package canvas is a paginated raster page model. Content is stacked
// vertically from the top margin; when the next line, picture or table row
// would cross the bottom margin the page is finalized and a blank one started.
package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// Config 页面参数，单位为像素
type Config struct {
	PageWidth  int     `mapstructure:"page_width"`
	PageHeight int     `mapstructure:"page_height"`
	Margin     int     `mapstructure:"margin"`
	FontSize   float64 `mapstructure:"font_size"`
	LineHeight int     `mapstructure:"line_height"`
	Spacing    int     `mapstructure:"spacing"` // 块之间的间距
	// PictureSize 图片缩放后的最大边长
	PictureSize int `mapstructure:"picture_size"`
}

// DefaultConfig returns an A4 page at 96 DPI.
func DefaultConfig() Config {
	return Config{
		PageWidth:   794,
		PageHeight:  1123,
		Margin:      20,
		FontSize:    12,
		LineHeight:  14,
		Spacing:     6,
		PictureSize: 200,
	}
}

// withDefaults 用默认值填充零值字段
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PageWidth == 0 {
		c.PageWidth = d.PageWidth
	}
	if c.PageHeight == 0 {
		c.PageHeight = d.PageHeight
	}
	if c.Margin == 0 {
		c.Margin = d.Margin
	}
	if c.FontSize == 0 {
		c.FontSize = d.FontSize
	}
	if c.LineHeight == 0 {
		c.LineHeight = d.LineHeight
	}
	if c.Spacing == 0 {
		c.Spacing = d.Spacing
	}
	if c.PictureSize == 0 {
		c.PictureSize = d.PictureSize
	}
	return c
}

var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	fontsErr    error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regularFont, fontsErr = opentype.Parse(goregular.TTF)
		if fontsErr != nil {
			return
		}
		boldFont, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fontsErr
}

type faceKey struct {
	size float64
	bold bool
}

// Canvas implements template.Document on raster pages.
// It is not safe for concurrent use; create one per generation.
type Canvas struct {
	cfg   Config
	faces map[faceKey]font.Face
	pages []*image.NRGBA
	page  *image.NRGBA
	ink   *image.Uniform
}

// New creates a canvas with one blank page.
func New(cfg Config) (*Canvas, error) {
	cfg = cfg.withDefaults()
	if cfg.PageWidth <= 2*cfg.Margin || cfg.PageHeight <= 2*cfg.Margin {
		return nil, fmt.Errorf("page %dx%d is too small for margin %d", cfg.PageWidth, cfg.PageHeight, cfg.Margin)
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}

	c := &Canvas{
		cfg:   cfg,
		faces: make(map[faceKey]font.Face),
		ink:   image.NewUniform(color.Black),
	}
	c.page = c.blankPage()
	return c, nil
}

// Config 返回补全默认值后的配置
func (c *Canvas) Config() Config {
	return c.cfg
}

// Pages returns the finalized pages followed by the current one.
func (c *Canvas) Pages() []*image.NRGBA {
	return append(append([]*image.NRGBA(nil), c.pages...), c.page)
}

func (c *Canvas) blankPage() *image.NRGBA {
	return imaging.New(c.cfg.PageWidth, c.cfg.PageHeight, color.White)
}

// newPage 结束当前页并返回新页起点
func (c *Canvas) newPage() int {
	c.pages = append(c.pages, c.page)
	c.page = c.blankPage()
	return c.cfg.Margin
}

func (c *Canvas) face(size float64, bold bool) (font.Face, error) {
	key := faceKey{size: size, bold: bold}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	src := regularFont
	if bold {
		src = boldFont
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	c.faces[key] = f
	return f, nil
}

func (c *Canvas) bottom() int {
	return c.cfg.PageHeight - c.cfg.Margin
}

func (c *Canvas) usableWidth() int {
	return c.cfg.PageWidth - 2*c.cfg.Margin
}

// cursor 把位置转换为起始纵坐标
func (c *Canvas) cursor(at template.Position) int {
	y := int(at.Y)
	if y < c.cfg.Margin {
		y = c.cfg.Margin
	}
	return y
}

// fit 确保 [y, y+h) 能放在当前页，否则换页。页首的块即使超高也照常放置。
func (c *Canvas) fit(y, h int) int {
	if y+h > c.bottom() && y > c.cfg.Margin {
		return c.newPage()
	}
	return y
}

func (c *Canvas) drawText(face font.Face, x, y int, s string) {
	d := &font.Drawer{
		Dst:  c.page,
		Src:  c.ink,
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func (c *Canvas) writeLines(text string, face font.Face, lineHeight int, at template.Position) template.Position {
	y := c.cursor(at)
	for _, line := range wrapMeasured(text, face, c.usableWidth()) {
		y = c.fit(y, lineHeight)
		c.drawText(face, c.cfg.Margin, y, line)
		y += lineHeight
	}
	return template.Position{X: float64(c.cfg.Margin), Y: float64(y + c.cfg.Spacing)}
}

func (c *Canvas) AddParagraph(text string, at template.Position) (template.Position, error) {
	face, err := c.face(c.cfg.FontSize, false)
	if err != nil {
		return at, err
	}
	return c.writeLines(text, face, c.cfg.LineHeight, at), nil
}

// AddHeading 标题字号按级别递减，0 级为文档标题
func (c *Canvas) AddHeading(text string, level int, at template.Position) (template.Position, error) {
	size := c.cfg.FontSize * 4
	if level > 0 {
		size = c.cfg.FontSize * float64(8-level) / 2
	}
	face, err := c.face(size, true)
	if err != nil {
		return at, err
	}
	lineHeight := face.Metrics().Height.Ceil()
	return c.writeLines(text, face, lineHeight, at), nil
}

func (c *Canvas) AddPicture(data []byte, at template.Position) (template.Position, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return at, fmt.Errorf("failed to decode picture: %w", err)
	}

	maxW := min(c.cfg.PictureSize, c.usableWidth())
	maxH := min(c.cfg.PictureSize, c.bottom()-c.cfg.Margin)
	if img.Bounds().Dx() > maxW || img.Bounds().Dy() > maxH {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	y := c.fit(c.cursor(at), h)
	rect := image.Rect(c.cfg.Margin, y, c.cfg.Margin+w, y+h)
	draw.Draw(c.page, rect, img, img.Bounds().Min, draw.Over)

	return template.Position{X: float64(c.cfg.Margin), Y: float64(y + h + c.cfg.Spacing)}, nil
}

func (c *Canvas) AddTable(rows [][]string, at template.Position) (template.Position, error) {
	if len(rows) == 0 {
		return at, nil
	}
	face, err := c.face(c.cfg.FontSize, false)
	if err != nil {
		return at, err
	}

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return at, nil
	}

	const pad = 4
	colWidth := c.usableWidth() / cols
	rowHeight := c.cfg.LineHeight + 2*pad

	y := c.cursor(at)
	for _, row := range rows {
		y = c.fit(y, rowHeight)
		for i := 0; i < cols; i++ {
			x := c.cfg.Margin + i*colWidth
			c.strokeRect(image.Rect(x, y, x+colWidth, y+rowHeight))
			if i < len(row) {
				c.drawText(face, x+pad, y+pad, truncateMeasured(row[i], face, colWidth-2*pad))
			}
		}
		y += rowHeight
	}
	return template.Position{X: float64(c.cfg.Margin), Y: float64(y + c.cfg.Spacing)}, nil
}

func (c *Canvas) AddPageBreak(template.Position) (template.Position, error) {
	y := c.newPage()
	return template.Position{X: float64(c.cfg.Margin), Y: float64(y)}, nil
}

func (c *Canvas) strokeRect(r image.Rectangle) {
	for x := r.Min.X; x < r.Max.X; x++ {
		c.page.Set(x, r.Min.Y, color.Black)
		c.page.Set(x, r.Max.Y-1, color.Black)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		c.page.Set(r.Min.X, y, color.Black)
		c.page.Set(r.Max.X-1, y, color.Black)
	}
}

// wrapMeasured 按实际渲染宽度折行，保留原文中的换行
func wrapMeasured(text string, face font.Face, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if font.MeasureString(face, candidate).Ceil() <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			for font.MeasureString(face, word).Ceil() > width {
				head := truncateMeasured(word, face, width)
				if head == "" {
					head = string([]rune(word)[:1])
				}
				lines = append(lines, head)
				word = word[len(head):]
			}
			line = word
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// truncateMeasured 返回能放入 width 像素的最长前缀
func truncateMeasured(s string, face font.Face, width int) string {
	if font.MeasureString(face, s).Ceil() <= width {
		return s
	}
	runes := []rune(s)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if font.MeasureString(face, string(runes[:mid])).Ceil() <= width {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo])
}

// Stack concatenates pages vertically into one image.
func Stack(pages []*image.NRGBA) *image.NRGBA {
	if len(pages) == 0 {
		return imaging.New(1, 1, color.White)
	}
	w, h := 0, 0
	for _, p := range pages {
		w = max(w, p.Bounds().Dx())
		h += p.Bounds().Dy()
	}
	out := imaging.New(w, h, color.White)
	y := 0
	for _, p := range pages {
		draw.Draw(out, image.Rect(0, y, p.Bounds().Dx(), y+p.Bounds().Dy()), p, p.Bounds().Min, draw.Src)
		y += p.Bounds().Dy()
	}
	return out
}
