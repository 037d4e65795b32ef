// Package generic generates files of any extension from a {{token}} template.
package generic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
)

const Name = "generic"

// ErrNoContent 既没有模板也没有字节内容
var ErrNoContent = errors.New("generic: content is required")

// Options for generic files.
type Options struct {
	providers.FileOptions `mapstructure:",squash"`

	// Extension 必填，如 "html"、"ini"
	Extension string `mapstructure:"extension"`
	// Content 模板，占位符由 Format 渲染
	Content  string `mapstructure:"content"`
	Encoding string `mapstructure:"encoding"`

	// Bytes 不为空时原样写入，忽略 Content
	Bytes  []byte             `mapstructure:"-"`
	Format content.FormatFunc `mapstructure:"-"`
}

// Provider generates generic files.
type Provider struct {
	env *providers.Env
}

// New 创建通用文件提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

func (p *Provider) build(opts Options) (providers.Output, error) {
	ext := strings.TrimPrefix(opts.Extension, ".")
	if ext == "" {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, storage.ErrMissingExtension)
	}
	if opts.Bytes != nil {
		return providers.Output{
			Provider:  Name,
			Extension: ext,
			Payload:   opts.Bytes,
		}, nil
	}
	if opts.Content == "" {
		return providers.Output{}, ErrNoContent
	}
	if p.env.Faker == nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, providers.ErrNoFaker)
	}

	text, err := p.env.Faker.GenerateText(content.TextOptions{
		Content: opts.Content,
		Format:  opts.Format,
	})
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}
	return providers.Output{
		Provider:  Name,
		Extension: ext,
		Text:      text,
		Encoding:  opts.Encoding,
		Data:      &fakefile.Data{Content: text},
	}, nil
}

// Generate writes the file and registers it.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := p.build(opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the encoded file without writing it.
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
