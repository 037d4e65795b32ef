// Package txt generates plain text files.
package txt

import (
	"context"
	"fmt"

	"github.com/nerdneilsfield/go-faker-file/internal/document"
	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
)

const (
	Name      = "txt"
	Extension = "txt"
)

// Options for text files.
type Options struct {
	providers.FileOptions    `mapstructure:",squash"`
	providers.ContentOptions `mapstructure:",squash"`

	// Encoding 写入字符集，默认 utf-8
	Encoding string `mapstructure:"encoding"`
}

// Provider generates text files.
type Provider struct {
	env *providers.Env
}

// New 创建文本文件提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

func (p *Provider) build(opts Options) (providers.Output, error) {
	w, err := document.NewWriter(document.FormatText, document.WriterOptions{Logger: p.env.Logger})
	if err != nil {
		return providers.Output{}, err
	}
	g, err := p.env.Render(opts.Resolve(content.DefaultTextMaxNbChars), w)
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}
	return providers.Output{
		Provider:  Name,
		Extension: Extension,
		Text:      w.(*document.TextWriter).String(),
		Encoding:  opts.Encoding,
		Data:      providers.DocumentData(g),
	}, nil
}

// Generate writes a text file and registers it.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := p.build(opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the encoded text without writing it.
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
