package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// FileSystem stores files under Root/RelPath on the local disk.
// Filenames are absolute paths.
type FileSystem struct {
	Root    string
	RelPath string
}

// NewFileSystem 创建本地文件系统存储，root 为空时使用系统临时目录
func NewFileSystem(root, relPath string) (*FileSystem, error) {
	if root == "" {
		root = os.TempDir()
	}
	if relPath == "" {
		relPath = DefaultRelPath
	}
	dir := filepath.Join(root, relPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &FileSystem{Root: root, RelPath: relPath}, nil
}

// Dir 返回文件实际写入的目录
func (s *FileSystem) Dir() string {
	return filepath.Join(s.Root, s.RelPath)
}

func (s *FileSystem) GenerateFilename(extension, prefix, basename string) (string, error) {
	name, err := buildName(extension, prefix, basename)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir(), name), nil
}

func (s *FileSystem) WriteText(ctx context.Context, filename, data, encoding string) (int, error) {
	payload, err := EncodeText(data, encoding)
	if err != nil {
		return 0, err
	}
	return s.WriteBytes(ctx, filename, payload)
}

// WriteBytes writes atomically: readers never observe a half-written file.
func (s *FileSystem) WriteBytes(_ context.Context, filename string, data []byte) (int, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", filename, err)
	}
	if err := renameio.WriteFile(filename, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return len(data), nil
}

// ReadBytes 读取已写入的文件内容
func (s *FileSystem) ReadBytes(_ context.Context, filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return data, nil
}

func (s *FileSystem) Exists(_ context.Context, filename string) (bool, error) {
	_, err := os.Stat(filename)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (s *FileSystem) Relpath(filename string) string {
	rel, err := filepath.Rel(s.Root, filename)
	if err != nil {
		return filename
	}
	return filepath.ToSlash(rel)
}

func (s *FileSystem) Abspath(filename string) string {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return filename
	}
	return abs
}

// Unlink 删除文件，文件不存在时不报错
func (s *FileSystem) Unlink(_ context.Context, filename string) error {
	if err := os.Remove(filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", filename, err)
	}
	return nil
}
