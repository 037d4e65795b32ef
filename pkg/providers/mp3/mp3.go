// Package mp3 generates spoken audio files through a speech strategy.
package mp3

import (
	"context"
	"fmt"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	mp3gen "github.com/nerdneilsfield/go-faker-file/pkg/generator/mp3"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
)

const (
	Name      = "mp3"
	Extension = "mp3"

	DefaultMaxNbChars = 500
)

// Options for MP3 files. Generator is "openai" (default) or "openai_v2".
type Options struct {
	providers.FileOptions     `mapstructure:",squash"`
	providers.ContentOptions  `mapstructure:",squash"`
	providers.StrategyOptions `mapstructure:",squash"`
}

// Provider generates MP3 files.
type Provider struct {
	env *providers.Env
}

// New 创建 MP3 提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

func (p *Provider) build(ctx context.Context, opts Options) (providers.Output, error) {
	payload, g, strategy, err := p.env.RunStrategy(ctx, generator.FamilyMP3, mp3gen.NameOpenAI,
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

// Generate synthesizes speech, writes it and registers the file.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := p.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the audio bytes without writing them.
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
