// Package registry 跟踪已生成的文件，便于统一清理。
package registry

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/internal/metrics"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
)

// Registry 已生成文件的注册表，以路径为键
type Registry struct {
	mu     sync.Mutex
	files  map[string]*fakefile.File
	logger *zap.Logger
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Init returns the process-wide registry, creating it on the first call.
// A later call with a non-nil logger replaces a nop logger set earlier, so
// unlink failures are never silently dropped.
func Init(logger *zap.Logger) *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(logger)
	})
	if logger != nil {
		defaultRegistry.SetLogger(logger)
	}
	return defaultRegistry
}

// SetLogger 替换记录清理失败的日志记录器
func (r *Registry) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// New 创建独立的注册表
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		files:  make(map[string]*fakefile.File),
		logger: logger,
	}
}

// Add 登记文件，重复登记同一路径不产生副作用
func (r *Registry) Add(f *fakefile.File) {
	if f == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.files[f.Path]; exists {
		return
	}
	r.files[f.Path] = f
	metrics.SetRegistrySize(len(r.files))
}

// Remove stops tracking f and unlinks it from its storage.
// It reports whether f was tracked. Unlink failures are logged, not returned.
func (r *Registry) Remove(ctx context.Context, f *fakefile.File) bool {
	if f == nil {
		return false
	}
	return r.RemovePath(ctx, f.Path)
}

// RemovePath is Remove keyed by the bare path.
func (r *Registry) RemovePath(ctx context.Context, path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, exists := r.files[path]
	if !exists {
		return false
	}
	delete(r.files, path)
	metrics.SetRegistrySize(len(r.files))

	r.unlink(ctx, f)
	return true
}

// Search 按路径精确查找（区分大小写）
func (r *Registry) Search(path string) (*fakefile.File, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[path]
	return f, ok
}

// CleanUp drains the registry under a single lock acquisition, unlinking
// every tracked file. One failed unlink does not stop the sweep.
func (r *Registry) CleanUp(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for path, f := range r.files {
		delete(r.files, path)
		r.unlink(ctx, f)
	}
	metrics.SetRegistrySize(0)
}

// Len 返回当前登记的文件数
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

// Files 返回当前登记文件的快照
func (r *Registry) Files() []*fakefile.File {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*fakefile.File, 0, len(r.files))
	for _, f := range r.files {
		out = append(out, f)
	}
	return out
}

// unlink 调用方需持有锁
func (r *Registry) unlink(ctx context.Context, f *fakefile.File) {
	if f.Data == nil || f.Data.Storage == nil {
		metrics.RecordUnlinkFailure()
		r.logger.Error("failed to unlink file: no storage reference", zap.String("path", f.Path))
		return
	}
	if err := f.Data.Storage.Unlink(ctx, f.Data.Filename); err != nil {
		metrics.RecordUnlinkFailure()
		r.logger.Error("failed to unlink file",
			zap.String("path", f.Path),
			zap.String("filename", f.Data.Filename),
			zap.Error(err))
	}
}
