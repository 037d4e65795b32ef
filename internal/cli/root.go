// Package cli implements the fakefile command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/internal/config"
	"github.com/nerdneilsfield/go-faker-file/internal/logger"
	"github.com/nerdneilsfield/go-faker-file/internal/metrics"
	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/registry"
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
)

var (
	// 全局标志
	cfgFile       string
	debugMode     bool
	logLevel      string
	seed          uint64
	locale        string
	outputDir     string
	metricsAddr   string
	cleanupOnExit bool
	quiet         bool
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fakefile",
		Short: "Generate fake files for tests",
		Long: `fakefile generates fake files of many formats: text documents, office
documents, PDFs, images, audio, data files, archives and e-mails.

Files are filled from content templates and can be nested inside containers
(ZIP, TAR, EML) to any depth.

Examples:
  # Ten plain text files
  fakefile generate txt --count 10

  # A PDF with a heading, a paragraph and a table
  fakefile generate pdf -t h1 -t paragraph -t table

  # A ZIP holding three DOCX or CSV files
  fakefile generate zip --inner docx --inner data --inner-count 3

  # Everything described by a recipe
  fakefile recipe fixtures.yaml`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.fakefile.yaml)")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.Uint64Var(&seed, "seed", 0, "Random seed, 0 picks one at random")
	flags.StringVar(&locale, "locale", "", "Locale of generated values (e.g. en-US)")
	flags.StringVarP(&outputDir, "output-dir", "o", "", "Root directory of the filesystem storage")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	flags.BoolVar(&cleanupOnExit, "cleanup", false, "Remove every generated file on exit")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Only print generated paths")

	rootCmd.AddCommand(
		NewGenerateCommand(),
		NewListCommand(),
		NewRecipeCommand(),
		NewConfigCommand(),
	)

	return rootCmd
}

// session 一次命令执行所需的配置、日志与生成环境
type session struct {
	cfg    *config.Config
	log    *zap.Logger
	env    *providers.Env
	server *http.Server
}

// newSession 加载配置，应用命令行覆盖，并构建提供者环境
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cmd, cfg)

	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	faker, err := content.New(content.WithSeed(cfg.Seed), content.WithLocale(cfg.Locale))
	if err != nil {
		return nil, err
	}

	st, err := storage.NewFromConfig(cmd.Context(), cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}

	env := providers.NewEnv(faker, st, registry.Init(log), log)
	env.Generators = cfg.Generators
	env.MaxDepth = cfg.Generation.MaxNestingDepth

	s := &session{cfg: cfg, log: log, env: env}
	if metricsAddr != "" {
		if err := s.serveMetrics(metricsAddr); err != nil {
			return nil, err
		}
	}

	log.Debug("session ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("locale", cfg.Locale),
		zap.Uint64("seed", cfg.Seed))
	return s, nil
}

// applyOverrides 只应用用户显式给出的标志
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("locale") {
		cfg.Locale = locale
	}
	if flags.Changed("debug") {
		cfg.Debug = debugMode
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("output-dir") {
		cfg.Storage.Backend = "filesystem"
		cfg.Storage.Root = outputDir
	}
}

// newLogger 按配置创建会话日志记录器，测试中可替换
var newLogger = func(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Debug {
		return logger.NewLogger(true), nil
	}
	if cfg.LogLevel == "" {
		return logger.NewLogger(false), nil
	}
	return logger.NewLoggerWithLevel(cfg.LogLevel)
}

func (s *session) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	s.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	s.log.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	return nil
}

// Close 按需清理生成的文件并释放存储连接
func (s *session) Close(ctx context.Context) {
	if cleanupOnExit {
		files := s.env.Registry.Files()
		s.env.Registry.CleanUp(ctx)
		for _, f := range files {
			s.log.Debug("removed generated file", zap.String("path", f.Path))
		}
		s.log.Info("generated files removed", zap.Int("files", len(files)))
	}
	if c, ok := s.env.Storage.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.log.Warn("failed to close storage", zap.Error(err))
		}
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	_ = s.log.Sync()
}
