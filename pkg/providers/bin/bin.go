// Package bin generates files of random bytes.
package bin

import (
	"context"
	"fmt"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
)

const (
	Name      = "bin"
	Extension = "bin"

	// DefaultLength 默认 1 MiB
	DefaultLength = 1 << 20
)

// Options for binary files.
type Options struct {
	providers.FileOptions `mapstructure:",squash"`

	// Length 随机字节数，0 使用 DefaultLength
	Length int `mapstructure:"length"`
	// Content 不为空时原样写入
	Content []byte `mapstructure:"-"`
}

// Provider generates binary files.
type Provider struct {
	env *providers.Env
}

// New 创建二进制文件提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

func (p *Provider) build(opts Options) (providers.Output, error) {
	payload := opts.Content
	if payload == nil {
		if opts.Length < 0 {
			return providers.Output{}, fmt.Errorf("%s: length must not be negative", Name)
		}
		if p.env.Faker == nil {
			return providers.Output{}, fmt.Errorf("%s: %w", Name, providers.ErrNoFaker)
		}
		length := opts.Length
		if length == 0 {
			length = DefaultLength
		}
		payload = p.env.Faker.RandomBytes(length)
	}

	data := &fakefile.Data{}
	data.SetExtra("length", len(payload))
	return providers.Output{
		Provider:  Name,
		Extension: Extension,
		Payload:   payload,
		Data:      data,
	}, nil
}

// Generate writes a binary file and registers it.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := p.build(opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the bytes without writing them.
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
