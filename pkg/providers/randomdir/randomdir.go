// Package randomdir copies a randomly chosen file of a directory into a storage.
package randomdir

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/frompath"
)

const Name = "random_file_from_dir"

// ErrEmptyDir 源目录中没有普通文件
var ErrEmptyDir = errors.New("random_file_from_dir: no regular files in source directory")

// Options for files picked from a directory.
type Options struct {
	providers.FileOptions `mapstructure:",squash"`

	// SourceDir 只考虑第一层的普通文件
	SourceDir string `mapstructure:"source_dir"`
}

// Provider picks and copies source files.
type Provider struct {
	env *providers.Env
}

// New 创建目录随机文件提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

func (p *Provider) build(opts Options) (providers.Output, error) {
	if opts.SourceDir == "" {
		return providers.Output{}, fmt.Errorf("%s: source_dir is required", Name)
	}
	if p.env.Faker == nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, providers.ErrNoFaker)
	}
	entries, err := os.ReadDir(opts.SourceDir)
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}

	// ReadDir 按名称排序，固定种子时选择可复现
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(opts.SourceDir, e.Name()))
		}
	}
	if len(files) == 0 {
		return providers.Output{}, fmt.Errorf("%w: %s", ErrEmptyDir, opts.SourceDir)
	}

	return frompath.Load(Name, files[p.env.Faker.IntRange(0, len(files)-1)])
}

// Generate copies a random file and registers the copy.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := p.build(opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the bytes of a random file.
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
