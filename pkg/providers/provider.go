// Package providers holds what every file provider shares: the generation
// environment, the common options and the persist-then-register step.
//
// Each format lives in its own subpackage (txt, docx, pdf, zip, ...) and
// exposes Generate, GenerateRaw and Inner.
package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/internal/metrics"
	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/registry"
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// ScratchRelPath 容器内部文件的临时目录名
const ScratchRelPath = "fakefile-scratch"

// ErrNoFaker 环境中没有内容生成器
var ErrNoFaker = errors.New("providers: environment has no faker")

// Env is what a provider needs to produce and track a file.
type Env struct {
	Faker  *content.Faker
	Logger *zap.Logger
	// Registry 为空时生成的文件不被登记（容器内部文件即如此）
	Registry *registry.Registry
	// Storage 默认目标存储，FileOptions.Storage 可覆盖
	Storage storage.Storage
	// Scratch 容器内部文件的落地位置，为空时使用系统临时目录
	Scratch *storage.FileSystem

	// Generators 按格式族（image、pdf、mp3）的生成策略默认选项
	Generators map[string]map[string]any

	Depth    int
	MaxDepth int

	pinned bool
}

// NewEnv returns an environment writing to st and registering in reg.
// A nil reg leaves generated files untracked.
func NewEnv(faker *content.Faker, st storage.Storage, reg *registry.Registry, logger *zap.Logger) *Env {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Env{
		Faker:    faker,
		Logger:   logger,
		Registry: reg,
		Storage:  st,
	}
}

// FromComposer 把容器环境转换为内部文件的提供者环境：写入临时存储，不登记
func FromComposer(ce *composer.Env) *Env {
	return &Env{
		Faker:      ce.Faker,
		Logger:     ce.Logger,
		Storage:    ce.Scratch,
		Scratch:    ce.Scratch,
		Depth:      ce.Depth,
		MaxDepth:   ce.MaxDepth,
		Generators: ce.Generators,
		pinned:     true,
	}
}

// Composer returns the environment containers hand to their inner functions.
func (e *Env) Composer() (*composer.Env, error) {
	scratch := e.Scratch
	if scratch == nil {
		fs, err := storage.NewFileSystem("", ScratchRelPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create scratch storage: %w", err)
		}
		scratch = fs
	}
	return &composer.Env{
		Scratch:    scratch,
		Faker:      e.Faker,
		Logger:     e.logger(),
		Depth:      e.Depth,
		MaxDepth:   e.MaxDepth,
		Generators: e.Generators,
	}, nil
}

// Generation 创建一次模板执行的状态
func (e *Env) Generation() (*template.Generation, error) {
	if e.Faker == nil {
		return nil, ErrNoFaker
	}
	return template.NewGeneration(e.Faker, e.logger()), nil
}

// Render executes c against doc and returns the generation state.
func (e *Env) Render(c template.Content, doc template.Document) (*template.Generation, error) {
	g, err := e.Generation()
	if err != nil {
		return nil, err
	}
	if _, err := template.Execute(template.From(c), doc, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Env) storage(fo FileOptions) (storage.Storage, error) {
	// 内部文件必须落在临时存储中，以便容器读回
	if e.pinned {
		return e.Storage, nil
	}
	if fo.Storage != nil {
		return fo.Storage, nil
	}
	if e.Storage != nil {
		return e.Storage, nil
	}
	fs, err := storage.NewFileSystem("", storage.DefaultRelPath)
	if err != nil {
		return nil, err
	}
	e.Storage = fs
	return fs, nil
}

// FileOptions are accepted by every provider.
type FileOptions struct {
	Storage  storage.Storage `mapstructure:"-"`
	Prefix   string          `mapstructure:"prefix"`
	Basename string          `mapstructure:"basename"`
}

// ContentOptions describe the text of document-like formats. Template wins
// over Content; without either a single generated paragraph is used.
type ContentOptions struct {
	MaxNbChars     int                       `mapstructure:"max_nb_chars"`
	WrapCharsAfter int                       `mapstructure:"wrap_chars_after"`
	Content        string                    `mapstructure:"content"`
	Format         content.FormatFunc        `mapstructure:"-"`
	Template       *template.DynamicTemplate `mapstructure:"-"`
}

// Resolve 返回要执行的内容，defaultMax 在 MaxNbChars 未设置时使用
func (o ContentOptions) Resolve(defaultMax int) template.Content {
	if o.Template != nil {
		return o.Template
	}
	maxNbChars := o.MaxNbChars
	if maxNbChars == 0 {
		maxNbChars = defaultMax
	}
	return template.New(template.Paragraph{
		Content:        o.Content,
		MaxNbChars:     maxNbChars,
		WrapCharsAfter: o.WrapCharsAfter,
		Format:         o.Format,
	})
}

// Output is a finished payload waiting to be persisted.
type Output struct {
	Provider  string
	Extension string

	Payload []byte
	// Text 与 Encoding 用于文本格式，Payload 为空时写入 Text
	Text     string
	Encoding string

	Data *fakefile.Data
}

func (o Output) textual() bool { return o.Payload == nil }

// Save writes out, builds the handle and registers it. Nothing is registered
// when writing fails.
func (e *Env) Save(ctx context.Context, fo FileOptions, out Output) (*fakefile.File, error) {
	start := time.Now()
	f, n, err := e.save(ctx, fo, out)
	metrics.RecordGeneration(out.Provider, n, time.Since(start), err == nil)
	if err != nil {
		e.logger().Debug("file generation failed",
			zap.String("provider", out.Provider),
			zap.Error(err))
		return nil, err
	}
	e.logger().Debug("file generated",
		zap.String("provider", out.Provider),
		zap.String("path", f.Path),
		zap.Int("bytes", n))
	return f, nil
}

func (e *Env) save(ctx context.Context, fo FileOptions, out Output) (*fakefile.File, int, error) {
	st, err := e.storage(fo)
	if err != nil {
		return nil, 0, err
	}
	filename, err := st.GenerateFilename(out.Extension, fo.Prefix, fo.Basename)
	if err != nil {
		return nil, 0, err
	}

	var n int
	if out.textual() {
		n, err = st.WriteText(ctx, filename, out.Text, out.Encoding)
	} else {
		n, err = st.WriteBytes(ctx, filename, out.Payload)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to write %s: %w", filename, err)
	}

	data := out.Data
	if data == nil {
		data = &fakefile.Data{}
	}
	data.Filename = filename
	data.Storage = st

	f := &fakefile.File{Path: st.Relpath(filename), Data: data}
	if e.Registry != nil {
		e.Registry.Add(f)
	}
	return f, n, nil
}

// Raw returns out as an unpersisted, unregistered payload.
func (e *Env) Raw(out Output) (*fakefile.RawFile, error) {
	start := time.Now()
	payload := out.Payload
	if out.textual() {
		var err error
		payload, err = storage.EncodeText(out.Text, out.Encoding)
		if err != nil {
			metrics.RecordGeneration(out.Provider, 0, time.Since(start), false)
			return nil, err
		}
	}
	data := out.Data
	if data == nil {
		data = &fakefile.Data{}
	}
	metrics.RecordGeneration(out.Provider, len(payload), time.Since(start), true)
	return &fakefile.RawFile{Content: payload, Data: data}, nil
}

// DocumentData 由模板转写构建元数据
func DocumentData(g *template.Generation) *fakefile.Data {
	return &fakefile.Data{
		Content:          g.Transcript.Content(),
		ContentModifiers: g.Transcript.Modifiers(),
	}
}

// GenerateFunc produces one persisted file in env.
type GenerateFunc func(ctx context.Context, env *Env) (*fakefile.File, error)

// Inner adapts fn for use inside a container.
func Inner(fn GenerateFunc) composer.Single {
	return func(ctx context.Context, ce *composer.Env) (*fakefile.File, error) {
		return fn(ctx, FromComposer(ce))
	}
}
