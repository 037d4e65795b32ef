// Package generator 定义把内容转换为最终字节的可插拔生成策略。
package generator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// ErrNotImplemented is returned by strategies that do not override Generate.
var ErrNotImplemented = errors.New("generator: generate not implemented")

// Strategy turns content into the payload of one format family.
// Paginated strategies run the template engine against their own page model.
type Strategy interface {
	Generate(ctx context.Context, content template.Content, g *template.Generation) ([]byte, error)
}

// Base 可嵌入的默认实现
type Base struct{}

func (Base) Generate(context.Context, template.Content, *template.Generation) ([]byte, error) {
	return nil, ErrNotImplemented
}

// 格式族
const (
	FamilyImage = "image"
	FamilyPDF   = "pdf"
	FamilyMP3   = "mp3"
)

// Factory 根据选项创建策略，未识别的选项被忽略
type Factory func(options map[string]any, logger *zap.Logger) (Strategy, error)

// Registry 生成策略注册表
type Registry struct {
	mu        sync.RWMutex
	factories map[string]map[string]Factory
}

// globalRegistry 全局注册表实例
var globalRegistry = NewRegistry()

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]map[string]Factory)}
}

// Register 注册策略到全局注册表
func Register(family, name string, factory Factory) error {
	return globalRegistry.Register(family, name, factory)
}

// MustRegister 注册失败时 panic，用于 init
func MustRegister(family, name string, factory Factory) {
	if err := Register(family, name, factory); err != nil {
		panic(err)
	}
}

// New 从全局注册表创建策略
func New(family, name string, options map[string]any, logger *zap.Logger) (Strategy, error) {
	return globalRegistry.New(family, name, options, logger)
}

// Names 返回全局注册表中某格式族的策略名称
func Names(family string) []string {
	return globalRegistry.Names(family)
}

// Families 返回全局注册表中的格式族
func Families() []string {
	return globalRegistry.Families()
}

// Register 注册策略
func (r *Registry) Register(family, name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byName, ok := r.factories[family]
	if !ok {
		byName = make(map[string]Factory)
		r.factories[family] = byName
	}
	if _, exists := byName[name]; exists {
		return fmt.Errorf("strategy %s/%s already registered", family, name)
	}
	byName[name] = factory
	return nil
}

// New 创建策略
func (r *Registry) New(family, name string, options map[string]any, logger *zap.Logger) (Strategy, error) {
	r.mu.RLock()
	factory, ok := r.factories[family][name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no %s strategy registered with name: %s", family, name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return factory(options, logger)
}

// Names 返回策略名称（已排序）
func (r *Registry) Names(family string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories[family]))
	for name := range r.factories[family] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Families 返回格式族（已排序）
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	families := make([]string, 0, len(r.factories))
	for family := range r.factories {
		families = append(families, family)
	}
	sort.Strings(families)
	return families
}

// DecodeOptions decodes an options map into a config struct. Keys the struct
// does not declare are ignored and strings are converted to numbers/bools.
func DecodeOptions(options map[string]any, out any) error {
	if len(options) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(options); err != nil {
		return fmt.Errorf("invalid strategy options: %w", err)
	}
	return nil
}
