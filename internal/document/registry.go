package document

import (
	"fmt"
	"sort"
	"sync"
)

// Registry 格式写入器注册表
type Registry struct {
	mu      sync.RWMutex
	writers map[Format]WriterFactory
}

// globalRegistry 全局注册表实例
var globalRegistry = NewRegistry()

func init() {
	MustRegister(FormatText, NewTextWriter)
	MustRegister(FormatMarkdown, NewMarkdownWriter)
	MustRegister(FormatHTML, NewHTMLWriter)
	MustRegister(FormatDocx, NewDocxWriter)
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		writers: make(map[Format]WriterFactory),
	}
}

// Register 注册写入器到全局注册表
func Register(format Format, factory WriterFactory) error {
	return globalRegistry.Register(format, factory)
}

// MustRegister 注册失败时 panic，仅用于 init
func MustRegister(format Format, factory WriterFactory) {
	if err := Register(format, factory); err != nil {
		panic(err)
	}
}

// NewWriter 从全局注册表创建写入器
func NewWriter(format Format, opts WriterOptions) (Writer, error) {
	return globalRegistry.NewWriter(format, opts)
}

// Formats 列出全局注册表中的格式
func Formats() []Format {
	return globalRegistry.Formats()
}

// Register 注册写入器
func (r *Registry) Register(format Format, factory WriterFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.writers[format]; exists {
		return fmt.Errorf("format %s already registered", format)
	}
	r.writers[format] = factory
	return nil
}

// NewWriter 创建指定格式的写入器
func (r *Registry) NewWriter(format Format, opts WriterOptions) (Writer, error) {
	r.mu.RLock()
	factory, exists := r.writers[format]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no writer registered for format: %s", format)
	}
	return factory(opts)
}

// Formats 获取所有已注册的格式
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.writers))
	for format := range r.writers {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
