// Package tar generates TAR archives, optionally gzip or zstd compressed.
package tar

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/txt"
)

const (
	Name = "tar"

	DefaultCount = 5
)

// Compression modes.
const (
	CompressionNone = "none"
	CompressionGzip = "gz"
	CompressionZstd = "zst"
)

// Options for TAR archives.
type Options struct {
	providers.FileOptions      `mapstructure:",squash"`
	providers.ContainerOptions `mapstructure:",squash"`

	// Compression none（默认）、gz 或 zst，同时决定扩展名
	Compression string `mapstructure:"compression"`
}

// Provider generates TAR archives.
type Provider struct {
	env *providers.Env
}

// New 创建 TAR 提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

func compression(name string) (string, error) {
	switch strings.ToLower(name) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionGzip, "gzip":
		return CompressionGzip, nil
	case CompressionZstd, "zstd":
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("%s: unsupported compression %q", Name, name)
	}
}

// Extension returns the file extension for a compression mode.
func Extension(mode string) string {
	if mode == CompressionNone || mode == "" {
		return "tar"
	}
	return "tar." + mode
}

// compressor 包装输出流
func compressor(mode string, w io.Writer) (io.WriteCloser, error) {
	switch mode {
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	default:
		return nopCloser{w}, nil
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

type packer struct {
	tw       *tar.Writer
	modified time.Time
}

func (p *packer) Pack(name string, data []byte) error {
	if err := p.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(data)),
		ModTime:  p.modified,
	}); err != nil {
		return err
	}
	_, err := p.tw.Write(data)
	return err
}

func (p *Provider) build(ctx context.Context, opts Options) (providers.Output, error) {
	mode, err := compression(opts.Compression)
	if err != nil {
		return providers.Output{}, err
	}

	var buf bytes.Buffer
	cw, err := compressor(mode, &buf)
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}
	pk := &packer{tw: tar.NewWriter(cw), modified: time.Now()}
	data, err := p.env.Compose(ctx, pk, opts.ContainerOptions, DefaultCount, txt.Inner(txt.Options{}))
	if err != nil {
		_ = cw.Close()
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}
	if err := pk.tw.Close(); err != nil {
		return providers.Output{}, fmt.Errorf("%s: failed to finish archive: %w", Name, err)
	}
	if err := cw.Close(); err != nil {
		return providers.Output{}, fmt.Errorf("%s: failed to finish %s stream: %w", Name, mode, err)
	}

	data.SetExtra("compression", mode)
	return providers.Output{
		Provider:  Name,
		Extension: Extension(mode),
		Payload:   buf.Bytes(),
		Data:      data,
	}, nil
}

// Generate writes a TAR archive and registers it.
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

// Inner 返回容器中使用的内部文件函数
func Inner(opts Options) composer.Single {
	return providers.Inner(func(ctx context.Context, env *providers.Env) (*fakefile.File, error) {
		return New(env).Generate(ctx, opts)
	})
}
