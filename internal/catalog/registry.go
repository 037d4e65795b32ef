// Package catalog maps provider names to builders and turns recipes into
// generate functions.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// Spec is a decoded request for one file.
type Spec struct {
	Options  map[string]any
	Template *template.DynamicTemplate
	// Create 容器的内部文件函数，非容器忽略
	Create composer.InnerFunc
}

// Builder describes a provider and knows how to bind a Spec to it.
type Builder struct {
	Name        string
	Extensions  []string
	Description string
	// Family 生成策略族，为空表示不使用策略
	Family string
	// Content 接受内容模板
	Content bool
	// Container 可包含内部文件
	Container bool
	Build     func(spec Spec) (providers.GenerateFunc, error)
}

// Registry 提供者目录
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry 创建新的注册表
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]Builder),
	}
}

// Register 注册提供者
func (r *Registry) Register(b Builder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.Name == "" || b.Build == nil {
		return fmt.Errorf("provider builder needs a name and a build function")
	}
	if _, exists := r.builders[b.Name]; exists {
		return fmt.Errorf("provider %s already registered", b.Name)
	}

	r.builders[b.Name] = b
	return nil
}

// MustRegister 注册失败时 panic，仅用于 init
func (r *Registry) MustRegister(b Builder) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Get 获取提供者
func (r *Registry) Get(name string) (Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, exists := r.builders[name]
	if !exists {
		return Builder{}, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	return b, nil
}

// List 列出所有提供者（已排序）
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Builders 按名称顺序返回所有提供者
func (r *Registry) Builders() []Builder {
	names := r.List()
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Builder, 0, len(names))
	for _, name := range names {
		out = append(out, r.builders[name])
	}
	return out
}

// DefaultRegistry 默认注册表，包含全部内置提供者
var DefaultRegistry = NewRegistry()

// Get 从默认注册表获取
func Get(name string) (Builder, error) {
	return DefaultRegistry.Get(name)
}

// List 列出默认注册表中的提供者
func List() []string {
	return DefaultRegistry.List()
}
