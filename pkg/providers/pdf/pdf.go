// Package pdf generates PDF files through a pluggable generator strategy.
package pdf

import (
	"context"
	"fmt"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	pdfgen "github.com/nerdneilsfield/go-faker-file/pkg/generator/pdf"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
)

const (
	Name      = "pdf"
	Extension = "pdf"

	DefaultMaxNbChars = 10000
)

// Options for PDF files. Generator is "fpdf" (default) or "canvas".
type Options struct {
	providers.FileOptions     `mapstructure:",squash"`
	providers.ContentOptions  `mapstructure:",squash"`
	providers.StrategyOptions `mapstructure:",squash"`
}

// Provider generates PDF files.
type Provider struct {
	env *providers.Env
}

// New 创建 PDF 提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

func (p *Provider) build(ctx context.Context, opts Options) (providers.Output, error) {
	payload, g, strategy, err := p.env.RunStrategy(ctx, generator.FamilyPDF, pdfgen.NameFpdf,
		opts.StrategyOptions, opts.Resolve(DefaultMaxNbChars))
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}
	data := providers.DocumentData(g)
	data.SetExtra("generator", strategy)
	return providers.Output{
		Provider:  Name,
		Extension: Extension,
		Payload:   payload,
		Data:      data,
	}, nil
}

// Generate writes a PDF file and registers it.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := p.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the PDF bytes without writing them.
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
