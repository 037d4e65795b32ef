// Package frompath copies an existing file into a storage.
package frompath

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
)

const Name = "file_from_path"

// Options for copied files.
type Options struct {
	providers.FileOptions `mapstructure:",squash"`

	// Path 源文件路径，扩展名沿用源文件
	Path string `mapstructure:"path"`
}

// Provider copies source files.
type Provider struct {
	env *providers.Env
}

// New 创建文件复制提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

// Load reads the file at path into an output named after provider. The
// extension is taken from the source file; compound ones such as tar.gz
// keep only the last part.
func Load(provider, path string) (providers.Output, error) {
	if path == "" {
		return providers.Output{}, fmt.Errorf("%s: path is required", provider)
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return providers.Output{}, fmt.Errorf("%s: %s: %w", provider, path, storage.ErrMissingExtension)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: failed to read source: %w", provider, err)
	}

	data := &fakefile.Data{}
	data.SetExtra("source", path)
	return providers.Output{
		Provider:  provider,
		Extension: ext,
		Payload:   payload,
		Data:      data,
	}, nil
}

// Generate copies the source file and registers the copy.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := Load(Name, opts.Path)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the source bytes.
func (p *Provider) GenerateRaw(_ context.Context, opts Options) (*fakefile.RawFile, error) {
	out, err := Load(Name, opts.Path)
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
