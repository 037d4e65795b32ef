package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/internal/metrics"
)

// S3Config holds S3/MinIO storage settings.
type S3Config struct {
	Endpoint     string `mapstructure:"endpoint"`
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
	RelPath      string `mapstructure:"rel_path"`
}

// S3 stores files as objects in a bucket. Filenames are object keys.
type S3 struct {
	client  *s3.Client
	bucket  string
	relPath string
	logger  *zap.Logger
}

// NewS3 creates an S3 storage from config.
func NewS3(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	relPath := cfg.RelPath
	if relPath == "" {
		relPath = DefaultRelPath
	}

	return &S3{
		client:  client,
		bucket:  cfg.Bucket,
		relPath: strings.Trim(relPath, "/"),
		logger:  logger,
	}, nil
}

func (s *S3) GenerateFilename(extension, prefix, basename string) (string, error) {
	name, err := buildName(extension, prefix, basename)
	if err != nil {
		return "", err
	}
	return path.Join(s.relPath, name), nil
}

func (s *S3) WriteText(ctx context.Context, filename, data, encoding string) (int, error) {
	payload, err := EncodeText(data, encoding)
	if err != nil {
		return 0, err
	}
	return s.WriteBytes(ctx, filename, payload)
}

func (s *S3) WriteBytes(ctx context.Context, filename string, data []byte) (int, error) {
	start := time.Now()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(filename),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		metrics.RecordStorageOperation("s3", "put_object", time.Since(start), false)
		return 0, fmt.Errorf("put object %s: %w", filename, err)
	}

	metrics.RecordStorageOperation("s3", "put_object", time.Since(start), true)
	s.logger.Debug("S3 put object", zap.String("key", filename), zap.Int("size", len(data)))
	return len(data), nil
}

func (s *S3) Exists(ctx context.Context, filename string) (bool, error) {
	start := time.Now()

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			metrics.RecordStorageOperation("s3", "head_object", time.Since(start), true)
			return false, nil
		}
		metrics.RecordStorageOperation("s3", "head_object", time.Since(start), false)
		return false, fmt.Errorf("head object %s: %w", filename, err)
	}

	metrics.RecordStorageOperation("s3", "head_object", time.Since(start), true)
	return true, nil
}

func (s *S3) Relpath(filename string) string {
	return filename
}

func (s *S3) Abspath(filename string) string {
	return "s3://" + s.bucket + "/" + filename
}

// Unlink 删除对象；S3 删除不存在的对象本身不会报错
func (s *S3) Unlink(ctx context.Context, filename string) error {
	start := time.Now()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		metrics.RecordStorageOperation("s3", "delete_object", time.Since(start), false)
		return fmt.Errorf("delete object %s: %w", filename, err)
	}

	metrics.RecordStorageOperation("s3", "delete_object", time.Since(start), true)
	s.logger.Debug("S3 delete object", zap.String("key", filename))
	return nil
}
