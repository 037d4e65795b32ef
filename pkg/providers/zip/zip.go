// Package zip generates ZIP archives of generated inner files.
package zip

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/txt"
)

const (
	Name      = "zip"
	Extension = "zip"

	DefaultCount = 5
)

// Compression methods.
const (
	MethodDeflate = "deflate"
	MethodStore   = "store"
)

// Options for ZIP archives.
type Options struct {
	providers.FileOptions      `mapstructure:",squash"`
	providers.ContainerOptions `mapstructure:",squash"`

	// Method 压缩方式：deflate（默认）或 store
	Method string `mapstructure:"method"`
}

// Provider generates ZIP archives.
type Provider struct {
	env *providers.Env
}

// New 创建 ZIP 提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

func method(name string) (uint16, string, error) {
	switch strings.ToLower(name) {
	case "", MethodDeflate:
		return zip.Deflate, MethodDeflate, nil
	case MethodStore:
		return zip.Store, MethodStore, nil
	default:
		return 0, "", fmt.Errorf("%s: unsupported compression method %q", Name, name)
	}
}

// packer writes every inner file as one archive entry.
type packer struct {
	zw       *zip.Writer
	method   uint16
	modified time.Time
}

func (p *packer) Pack(name string, data []byte) error {
	w, err := p.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   p.method,
		Modified: p.modified,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (p *Provider) build(ctx context.Context, opts Options) (providers.Output, error) {
	m, methodName, err := method(opts.Method)
	if err != nil {
		return providers.Output{}, err
	}

	var buf bytes.Buffer
	pk := &packer{zw: zip.NewWriter(&buf), method: m, modified: time.Now()}
	data, err := p.env.Compose(ctx, pk, opts.ContainerOptions, DefaultCount, txt.Inner(txt.Options{}))
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}
	if err := pk.zw.Close(); err != nil {
		return providers.Output{}, fmt.Errorf("%s: failed to finish archive: %w", Name, err)
	}

	data.SetExtra("method", methodName)
	return providers.Output{
		Provider:  Name,
		Extension: Extension,
		Payload:   buf.Bytes(),
		Data:      data,
	}, nil
}

// Generate writes a ZIP archive and registers it. The inner files are not
// registered and do not survive the call.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := p.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the archive bytes without writing them.
func (p *Provider) GenerateRaw(ctx context.Context, opts Options) (*fakefile.RawFile, error) {
	out, err := p.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	return p.env.Raw(out)
}

// Inner 返回容器中使用的内部文件函数，可用于嵌套压缩包
func Inner(opts Options) composer.Single {
	return providers.Inner(func(ctx context.Context, env *providers.Env) (*fakefile.File, error) {
		return New(env).Generate(ctx, opts)
	})
}
