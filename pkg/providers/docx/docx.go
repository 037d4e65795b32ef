// Package docx generates Word documents.
package docx

import (
	"context"
	"fmt"

	"github.com/nerdneilsfield/go-faker-file/internal/document"
	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
)

const (
	Name      = "docx"
	Extension = "docx"

	DefaultMaxNbChars = 10000
)

// Options for DOCX files.
type Options struct {
	providers.FileOptions    `mapstructure:",squash"`
	providers.ContentOptions `mapstructure:",squash"`
}

// Provider generates DOCX files.
type Provider struct {
	env *providers.Env
}

// New 创建 DOCX 提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

func (p *Provider) build(opts Options) (providers.Output, error) {
	payload, g, err := p.env.RenderDocument(document.FormatDocx, "", opts.Resolve(DefaultMaxNbChars))
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}
	return providers.Output{
		Provider:  Name,
		Extension: Extension,
		Payload:   payload,
		Data:      providers.DocumentData(g),
	}, nil
}

// Generate writes a DOCX file and registers it.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := p.build(opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the DOCX bytes without writing them.
func (p *Provider) GenerateRaw(_ context.Context, opts Options) (*fakefile.RawFile, error) {
	out, err := p.build(opts)
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
