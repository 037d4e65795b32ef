package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/nerdneilsfield/go-faker-file/internal/metrics"
)

// SFTPConfig holds SFTP storage settings.
type SFTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Root     string `mapstructure:"root"`
	RelPath  string `mapstructure:"rel_path"`
	// HostKey 固定的服务端公钥（authorized_keys 格式）；为空时查 KnownHosts
	HostKey string `mapstructure:"host_key"`
	// KnownHosts 为空时使用 ~/.ssh/known_hosts
	KnownHosts string `mapstructure:"known_hosts"`
	// InsecureIgnoreHostKey 跳过主机密钥校验，仅用于测试环境
	InsecureIgnoreHostKey bool `mapstructure:"insecure_ignore_host_key"`
}

// SFTP stores files on a remote host over SSH. Filenames are remote paths.
type SFTP struct {
	conn    *ssh.Client
	client  *sftp.Client
	root    string
	relPath string
	logger  *zap.Logger
}

// NewSFTP dials the remote host and opens an SFTP session.
func NewSFTP(cfg SFTPConfig, logger *zap.Logger) (*SFTP, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("sftp host is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Port == 0 {
		cfg.Port = 22
	}

	hostKeys, err := hostKeyCallback(cfg, logger)
	if err != nil {
		return nil, err
	}

	conn, err := ssh.Dial("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)), &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: hostKeys,
		Timeout:         30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("dial sftp host %s: %w", cfg.Host, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open sftp session: %w", err)
	}

	relPath := cfg.RelPath
	if relPath == "" {
		relPath = DefaultRelPath
	}
	root := cfg.Root
	if root == "" {
		root = "/"
	}

	return &SFTP{conn: conn, client: client, root: root, relPath: relPath, logger: logger}, nil
}

// hostKeyCallback 依次使用 host_key、known_hosts；只有显式开启时才跳过校验
func hostKeyCallback(cfg SFTPConfig, logger *zap.Logger) (ssh.HostKeyCallback, error) {
	if cfg.HostKey != "" {
		key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(cfg.HostKey))
		if err != nil {
			return nil, fmt.Errorf("parse sftp host key: %w", err)
		}
		return ssh.FixedHostKey(key), nil
	}
	if cfg.InsecureIgnoreHostKey {
		logger.Warn("sftp host key verification disabled", zap.String("host", cfg.Host))
		return ssh.InsecureIgnoreHostKey(), nil
	}

	file := cfg.KnownHosts
	if file == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate known_hosts: %w", err)
		}
		file = filepath.Join(home, ".ssh", "known_hosts")
	}
	cb, err := knownhosts.New(file)
	if err != nil {
		return nil, fmt.Errorf("load sftp known_hosts %s: %w", file, err)
	}
	return cb, nil
}

func (s *SFTP) GenerateFilename(extension, prefix, basename string) (string, error) {
	name, err := buildName(extension, prefix, basename)
	if err != nil {
		return "", err
	}
	return path.Join(s.root, s.relPath, name), nil
}

func (s *SFTP) WriteText(ctx context.Context, filename, data, encoding string) (int, error) {
	payload, err := EncodeText(data, encoding)
	if err != nil {
		return 0, err
	}
	return s.WriteBytes(ctx, filename, payload)
}

func (s *SFTP) WriteBytes(_ context.Context, filename string, data []byte) (int, error) {
	start := time.Now()
	n, err := s.write(filename, data)
	metrics.RecordStorageOperation("sftp", "write", time.Since(start), err == nil)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("SFTP write", zap.String("path", filename), zap.Int("size", n))
	return n, nil
}

func (s *SFTP) write(filename string, data []byte) (int, error) {
	if err := s.client.MkdirAll(path.Dir(filename)); err != nil {
		return 0, fmt.Errorf("create remote directory for %s: %w", filename, err)
	}
	f, err := s.client.Create(filename)
	if err != nil {
		return 0, fmt.Errorf("create remote file %s: %w", filename, err)
	}
	n, err := f.Write(data)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("write remote file %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close remote file %s: %w", filename, err)
	}
	return n, nil
}

func (s *SFTP) Exists(_ context.Context, filename string) (bool, error) {
	_, err := s.client.Stat(filename)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat remote file %s: %w", filename, err)
}

func (s *SFTP) Relpath(filename string) string {
	rel, err := relUnder(s.root, filename)
	if err != nil {
		return filename
	}
	return rel
}

func (s *SFTP) Abspath(filename string) string {
	return "sftp://" + s.conn.RemoteAddr().String() + filename
}

func (s *SFTP) Unlink(_ context.Context, filename string) error {
	start := time.Now()
	err := s.client.Remove(filename)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		metrics.RecordStorageOperation("sftp", "remove", time.Since(start), false)
		return fmt.Errorf("remove remote file %s: %w", filename, err)
	}
	metrics.RecordStorageOperation("sftp", "remove", time.Since(start), true)
	return nil
}

// Close 关闭 SFTP 会话和底层 SSH 连接
func (s *SFTP) Close() error {
	if err := s.client.Close(); err != nil {
		s.conn.Close()
		return err
	}
	return s.conn.Close()
}

func relUnder(root, p string) (string, error) {
	root = path.Clean(root)
	p = path.Clean(p)
	if root == "/" {
		return p[1:], nil
	}
	if len(p) > len(root) && p[:len(root)] == root && p[len(root)] == '/' {
		return p[len(root)+1:], nil
	}
	return "", fmt.Errorf("%s is not under %s", p, root)
}
