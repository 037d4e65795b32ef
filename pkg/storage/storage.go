// Package storage 定义生成文件的落地存储接口及其实现（本地文件系统、S3、SFTP）。
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultRelPath 是文件写入存储根目录下的默认子路径
const DefaultRelPath = "tmp"

var (
	// ErrMissingExtension 生成文件名时没有给出扩展名
	ErrMissingExtension = errors.New("storage: extension shall be given")
	// ErrUnknownEncoding 文本编码名称无法识别
	ErrUnknownEncoding = errors.New("storage: unknown text encoding")
)

// Storage is the sink every generated file is written to.
// Filenames returned by GenerateFilename are opaque tokens understood only by
// the storage that produced them.
type Storage interface {
	GenerateFilename(extension, prefix, basename string) (string, error)
	WriteText(ctx context.Context, filename, data, encoding string) (int, error)
	WriteBytes(ctx context.Context, filename string, data []byte) (int, error)
	Exists(ctx context.Context, filename string) (bool, error)
	Relpath(filename string) string
	Abspath(filename string) string
	Unlink(ctx context.Context, filename string) error
}

// buildName 生成不含目录的文件名：basename.ext 或 prefix + 随机后缀 + .ext
func buildName(extension, prefix, basename string) (string, error) {
	extension = strings.TrimPrefix(extension, ".")
	if extension == "" {
		return "", ErrMissingExtension
	}
	if basename != "" {
		return basename + "." + extension, nil
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if prefix == "" {
		prefix = "tmp"
	}
	return prefix + suffix + "." + extension, nil
}

// EncodeText 按指定字符集编码文本，空编码视为 UTF-8
func EncodeText(data, name string) ([]byte, error) {
	if name == "" {
		return []byte(data), nil
	}
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().String(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode text as %s: %w", name, err)
	}
	return []byte(out), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}
	// ianaindex 对已知但未实现的编码返回 nil
	if enc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}
	return enc, nil
}
