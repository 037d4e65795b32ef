// Package image renders content onto canvas pages and encodes them as one image.
package image

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator/canvas"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// Name 策略注册名
const Name = "canvas"

func init() {
	generator.MustRegister(generator.FamilyImage, Name, func(options map[string]any, logger *zap.Logger) (generator.Strategy, error) {
		var cfg Config
		if err := generator.DecodeOptions(options, &cfg); err != nil {
			return nil, err
		}
		return NewGenerator(cfg, logger)
	})
}

// Config 画布参数和输出格式
type Config struct {
	canvas.Config `mapstructure:",squash"`
	// Format 为 png、jpg、jpeg、gif、bmp、tif 或 tiff
	Format      string `mapstructure:"format"`
	JPEGQuality int    `mapstructure:"jpeg_quality"`
}

// Generator draws content onto canvas pages and stacks all pages vertically.
type Generator struct {
	cfg    Config
	format imaging.Format
	logger *zap.Logger
}

// NewGenerator 创建图片生成策略
func NewGenerator(cfg Config, logger *zap.Logger) (*Generator, error) {
	if cfg.Format == "" {
		cfg.Format = "png"
	}
	format, err := imaging.FormatFromExtension(strings.TrimPrefix(cfg.Format, "."))
	if err != nil {
		return nil, fmt.Errorf("unsupported image format %q: %w", cfg.Format, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{cfg: cfg, format: format, logger: logger}, nil
}

// Format 返回输出格式
func (g *Generator) Format() imaging.Format {
	return g.format
}

func (g *Generator) Generate(_ context.Context, content template.Content, gen *template.Generation) ([]byte, error) {
	// 每次调用使用新的画布，调用之间不共享页面状态
	c, err := canvas.New(g.cfg.Config)
	if err != nil {
		return nil, err
	}
	if _, err := template.Execute(template.From(content), c, gen); err != nil {
		return nil, err
	}

	pages := c.Pages()
	g.logger.Debug("image pages rendered", zap.Int("pages", len(pages)))

	var opts []imaging.EncodeOption
	if g.cfg.JPEGQuality > 0 {
		opts = append(opts, imaging.JPEGQuality(g.cfg.JPEGQuality))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas.Stack(pages), g.format, opts...); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
