// Package pdf provides PDF generation strategies: a native text-flow one
// backed by fpdf and one that embeds rendered canvas pages.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// 策略注册名
const (
	NameFpdf   = "fpdf"
	NameCanvas = "canvas"
)

func init() {
	generator.MustRegister(generator.FamilyPDF, NameFpdf, func(options map[string]any, logger *zap.Logger) (generator.Strategy, error) {
		var cfg FpdfConfig
		if err := generator.DecodeOptions(options, &cfg); err != nil {
			return nil, err
		}
		return NewFpdfGenerator(cfg, logger), nil
	})
	generator.MustRegister(generator.FamilyPDF, NameCanvas, func(options map[string]any, logger *zap.Logger) (generator.Strategy, error) {
		var cfg CanvasConfig
		if err := generator.DecodeOptions(options, &cfg); err != nil {
			return nil, err
		}
		return NewCanvasGenerator(cfg, logger), nil
	})
}

// FpdfConfig fpdf 策略参数
type FpdfConfig struct {
	PageSize   string  `mapstructure:"page_size"`   // A4、Letter 等
	FontFamily string  `mapstructure:"font_family"` // 内置字体：Helvetica、Times、Courier
	FontSize   float64 `mapstructure:"font_size"`
	LineHeight float64 `mapstructure:"line_height"` // 单位 mm
	Margin     float64 `mapstructure:"margin"`      // 单位 mm
	// PictureWidth 图片宽度，单位 mm
	PictureWidth float64 `mapstructure:"picture_width"`
	Title        string  `mapstructure:"title"`
}

func (c FpdfConfig) withDefaults() FpdfConfig {
	if c.PageSize == "" {
		c.PageSize = "A4"
	}
	if c.FontFamily == "" {
		c.FontFamily = "Helvetica"
	}
	if c.FontSize == 0 {
		c.FontSize = 12
	}
	if c.LineHeight == 0 {
		c.LineHeight = 6
	}
	if c.Margin == 0 {
		c.Margin = 15
	}
	if c.PictureWidth == 0 {
		c.PictureWidth = 50
	}
	return c
}

// FpdfGenerator lays content out with fpdf's own text flow and page breaks.
type FpdfGenerator struct {
	cfg    FpdfConfig
	logger *zap.Logger
}

// NewFpdfGenerator 创建 fpdf 策略
func NewFpdfGenerator(cfg FpdfConfig, logger *zap.Logger) *FpdfGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FpdfGenerator{cfg: cfg.withDefaults(), logger: logger}
}

func (g *FpdfGenerator) Generate(_ context.Context, content template.Content, gen *template.Generation) ([]byte, error) {
	doc := newFpdfDocument(g.cfg)
	if _, err := template.Execute(template.From(content), doc, gen); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	g.logger.Debug("pdf rendered", zap.Int("pages", doc.pdf.PageNo()), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// fpdfDocument 将修饰器映射到 fpdf 调用，光标由 fpdf 自己维护
type fpdfDocument struct {
	cfg    FpdfConfig
	pdf    *fpdf.Fpdf
	tr     func(string) string
	images int
}

func newFpdfDocument(cfg FpdfConfig) *fpdfDocument {
	pdf := fpdf.New("P", "mm", cfg.PageSize, "")
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	pdf.SetAutoPageBreak(true, cfg.Margin)
	if cfg.Title != "" {
		pdf.SetTitle(cfg.Title, true)
	}
	pdf.AddPage()
	pdf.SetFont(cfg.FontFamily, "", cfg.FontSize)

	return &fpdfDocument{
		cfg: cfg,
		pdf: pdf,
		// 内置字体只支持 cp1252
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (d *fpdfDocument) cursor() (template.Position, error) {
	if err := d.pdf.Error(); err != nil {
		return template.Position{}, err
	}
	return template.Position{X: d.pdf.GetX(), Y: d.pdf.GetY()}, nil
}

func (d *fpdfDocument) contentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	l, _, r, _ := d.pdf.GetMargins()
	return w - l - r
}

func (d *fpdfDocument) AddParagraph(text string, _ template.Position) (template.Position, error) {
	d.pdf.SetFont(d.cfg.FontFamily, "", d.cfg.FontSize)
	d.pdf.MultiCell(0, d.cfg.LineHeight, d.tr(text), "", "L", false)
	d.pdf.Ln(d.cfg.LineHeight / 2)
	return d.cursor()
}

func (d *fpdfDocument) AddHeading(text string, level int, _ template.Position) (template.Position, error) {
	size := d.cfg.FontSize + float64(6-level)*2
	if level == 0 {
		size = d.cfg.FontSize * 2.4
	}
	d.pdf.SetFont(d.cfg.FontFamily, "B", size)
	d.pdf.MultiCell(0, size*0.5, d.tr(text), "", "L", false)
	d.pdf.Ln(d.cfg.LineHeight / 2)
	d.pdf.SetFont(d.cfg.FontFamily, "", d.cfg.FontSize)
	return d.cursor()
}

func (d *fpdfDocument) AddPicture(img []byte, _ template.Position) (template.Position, error) {
	imageType, err := sniffImageType(img)
	if err != nil {
		return template.Position{}, err
	}
	d.images++
	name := fmt.Sprintf("picture-%d", d.images)
	opts := fpdf.ImageOptions{ImageType: imageType, ReadDpi: false}

	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
	l, _, _, _ := d.pdf.GetMargins()
	// flow 模式下 fpdf 会在图片放不下时自动换页
	d.pdf.ImageOptions(name, l, 0, d.cfg.PictureWidth, 0, true, opts, 0, "")
	d.pdf.Ln(d.cfg.LineHeight / 2)
	return d.cursor()
}

func (d *fpdfDocument) AddTable(rows [][]string, _ template.Position) (template.Position, error) {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return d.cursor()
	}

	d.pdf.SetFont(d.cfg.FontFamily, "", d.cfg.FontSize*0.8)
	colWidth := d.contentWidth() / float64(cols)
	for _, row := range rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = d.fitCell(row[i], colWidth-2)
			}
			d.pdf.CellFormat(colWidth, d.cfg.LineHeight+2, cell, "1", 0, "L", false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(d.cfg.LineHeight / 2)
	d.pdf.SetFont(d.cfg.FontFamily, "", d.cfg.FontSize)
	return d.cursor()
}

func (d *fpdfDocument) fitCell(text string, width float64) string {
	lines := d.pdf.SplitText(d.tr(text), width)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

func (d *fpdfDocument) AddPageBreak(template.Position) (template.Position, error) {
	d.pdf.AddPage()
	return d.cursor()
}

func sniffImageType(img []byte) (string, error) {
	switch {
	case bytes.HasPrefix(img, []byte("\x89PNG")):
		return "PNG", nil
	case bytes.HasPrefix(img, []byte{0xff, 0xd8}):
		return "JPG", nil
	case bytes.HasPrefix(img, []byte("GIF8")):
		return "GIF", nil
	}
	return "", fmt.Errorf("unsupported picture format for pdf: %q", strings.ToValidUTF8(string(img[:min(len(img), 4)]), "?"))
}
