package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Config 选择存储后端及其参数
type Config struct {
	Backend string     `mapstructure:"backend"` // filesystem、s3 或 sftp
	Root    string     `mapstructure:"root"`    // 本地存储根目录，空表示系统临时目录
	RelPath string     `mapstructure:"rel_path"`
	S3      S3Config   `mapstructure:"s3"`
	SFTP    SFTPConfig `mapstructure:"sftp"`
}

// NewFromConfig creates a Storage from a backend type and its settings.
func NewFromConfig(ctx context.Context, cfg Config, logger *zap.Logger) (Storage, error) {
	switch cfg.Backend {
	case "", "filesystem", "local":
		return NewFileSystem(cfg.Root, cfg.RelPath)
	case "s3":
		return NewS3(ctx, cfg.S3, logger)
	case "sftp":
		return NewSFTP(cfg.SFTP, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
