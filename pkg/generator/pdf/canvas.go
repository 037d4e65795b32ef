package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/generator/canvas"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// pxToPt 按 96 DPI 将像素换算为磅
const pxToPt = 72.0 / 96.0

// CanvasConfig 画布 PDF 策略参数
type CanvasConfig struct {
	canvas.Config `mapstructure:",squash"`
}

// CanvasGenerator renders content onto raster pages and embeds each page as
// a full-page image.
type CanvasGenerator struct {
	cfg    CanvasConfig
	logger *zap.Logger
}

// NewCanvasGenerator 创建画布 PDF 策略
func NewCanvasGenerator(cfg CanvasConfig, logger *zap.Logger) *CanvasGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CanvasGenerator{cfg: cfg, logger: logger}
}

func (g *CanvasGenerator) Generate(_ context.Context, content template.Content, gen *template.Generation) ([]byte, error) {
	c, err := canvas.New(g.cfg.Config)
	if err != nil {
		return nil, err
	}
	if _, err := template.Execute(template.From(content), c, gen); err != nil {
		return nil, err
	}

	cfg := c.Config()
	w := float64(cfg.PageWidth) * pxToPt
	h := float64(cfg.PageHeight) * pxToPt

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, page := range c.Pages() {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, page, imaging.PNG); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	g.logger.Debug("canvas pdf rendered", zap.Int("pages", pdf.PageNo()), zap.Int("bytes", out.Len()))
	return out.Bytes(), nil
}
