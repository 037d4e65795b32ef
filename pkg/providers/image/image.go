// Package image generates raster images of rendered documents.
package image

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	imagegen "github.com/nerdneilsfield/go-faker-file/pkg/generator/image"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
)

const (
	Name = "image"

	DefaultFormat     = "png"
	DefaultMaxNbChars = 1000
)

// Formats 支持的图片格式（即扩展名）
var Formats = []string{"png", "jpg", "gif", "bmp", "tiff"}

// ErrFormatMismatch is returned when Format disagrees with the format of a
// strategy instance passed in StrategyOptions.Strategy.
var ErrFormatMismatch = errors.New("image: format does not match strategy output")

// extensions 编码格式对应的扩展名
var extensions = map[imaging.Format]string{
	imaging.PNG:  "png",
	imaging.JPEG: "jpg",
	imaging.GIF:  "gif",
	imaging.BMP:  "bmp",
	imaging.TIFF: "tiff",
}

// Options for image files.
type Options struct {
	providers.FileOptions     `mapstructure:",squash"`
	providers.ContentOptions  `mapstructure:",squash"`
	providers.StrategyOptions `mapstructure:",squash"`

	// Format 输出格式，同时决定扩展名
	Format string `mapstructure:"format"`
}

func (o Options) format() (string, error) {
	f := strings.ToLower(strings.TrimPrefix(o.Format, "."))
	switch f {
	case "":
		return DefaultFormat, nil
	case "jpeg":
		return "jpg", nil
	case "tif":
		return "tiff", nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%s: unsupported format %q", Name, o.Format)
}

// Provider generates image files.
type Provider struct {
	env *providers.Env
}

// New 创建图片提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

// strategyFormat 返回策略实例实际编码的格式；Format 只能与之一致
func (o Options) strategyFormat() (string, error) {
	f, ok := o.Strategy.(interface{ Format() imaging.Format })
	if !ok {
		if o.Format == "" {
			return "", fmt.Errorf("%s: strategy %T does not report its output format, set format explicitly", Name, o.Strategy)
		}
		return o.format()
	}
	actual, ok := extensions[f.Format()]
	if !ok {
		return "", fmt.Errorf("%s: strategy %T encodes unsupported format %v", Name, o.Strategy, f.Format())
	}
	if o.Format != "" {
		requested, err := o.format()
		if err != nil {
			return "", err
		}
		if requested != actual {
			return "", fmt.Errorf("%w: format %q, strategy encodes %q", ErrFormatMismatch, requested, actual)
		}
	}
	return actual, nil
}

func (p *Provider) build(ctx context.Context, opts Options) (providers.Output, error) {
	var (
		format string
		err    error
	)
	if opts.Strategy != nil {
		// 实例已构造完成，扩展名跟随它的输出
		format, err = opts.strategyFormat()
	} else {
		format, err = opts.format()
	}
	if err != nil {
		return providers.Output{}, err
	}

	so := opts.StrategyOptions
	genOpts := make(map[string]any, len(so.GeneratorOptions)+1)
	for k, v := range so.GeneratorOptions {
		genOpts[k] = v
	}
	genOpts["format"] = format
	so.GeneratorOptions = genOpts

	payload, g, strategy, err := p.env.RunStrategy(ctx, generator.FamilyImage, imagegen.Name,
		so, opts.Resolve(DefaultMaxNbChars))
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}
	data := providers.DocumentData(g)
	data.SetExtra("generator", strategy)
	data.SetExtra("format", format)
	return providers.Output{
		Provider:  Name,
		Extension: format,
		Payload:   payload,
		Data:      data,
	}, nil
}

// Generate writes an image file and registers it.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := p.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the image bytes without writing them.
func (p *Provider) GenerateRaw(ctx context.Context, opts Options) (*fakefile.RawFile, error) {
	out, err := p.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	return p.env.Raw(out)
}

// Inner 返回容器中使用的内部文件函数
func Inner(opts Options) composer.Single {
	return providers.Inner(func(ctx context.Context, env *providers.Env) (*fakefile.File, error) {
		return New(env).Generate(ctx, opts)
	})
}
