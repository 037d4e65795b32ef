// Package composer packs generated inner files into container formats.
//
// Inner files are materialized in a scratch filesystem storage, read back,
// handed to a Packer and then unlinked, so nothing but the finished container
// remains once the top-level call returns. Inner functions may themselves
// build containers through Compose, to any depth below Env.MaxDepth.
package composer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
)

// DefaultMaxDepth 默认最大嵌套深度
const DefaultMaxDepth = 16

var (
	// ErrNoInnerFunc 没有提供内部文件生成函数
	ErrNoInnerFunc = errors.New("composer: no inner file function")
	// ErrMaxDepth 容器嵌套超过上限
	ErrMaxDepth = errors.New("composer: maximum nesting depth exceeded")
	// ErrInvalidCount 内部文件数量为负
	ErrInvalidCount = errors.New("composer: count must not be negative")
)

// Env is shared by every inner function of one composition tree.
type Env struct {
	// Scratch 内部文件的临时落地存储
	Scratch *storage.FileSystem
	Faker   *content.Faker
	Logger  *zap.Logger
	// Depth 当前容器的嵌套层级，顶层为 0
	Depth    int
	MaxDepth int

	// Generators 按格式族的生成策略默认选项，原样传给内部文件
	Generators map[string]map[string]any
}

// Child returns the environment for the inner files of a container at e's depth.
func (e *Env) Child() (*Env, error) {
	maxDepth := e.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	if e.Depth+1 > maxDepth {
		return nil, fmt.Errorf("%w: %d", ErrMaxDepth, maxDepth)
	}
	child := *e
	child.Depth++
	return &child, nil
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// InnerFunc is either a Single or a Batch.
type InnerFunc interface {
	produce(ctx context.Context, env *Env, count int, each func(*fakefile.File) error) error
}

// Single creates one inner file per call; it is called Count times.
type Single func(ctx context.Context, env *Env) (*fakefile.File, error)

// Batch creates all inner files in one call; Count is ignored.
type Batch func(ctx context.Context, env *Env) ([]*fakefile.File, error)

func (s Single) produce(ctx context.Context, env *Env, count int, each func(*fakefile.File) error) error {
	for i := 0; i < count; i++ {
		f, err := s(ctx, env)
		if err != nil {
			return fmt.Errorf("inner file %d: %w", i, err)
		}
		if err := each(f); err != nil {
			return fmt.Errorf("inner file %d: %w", i, err)
		}
	}
	return nil
}

func (b Batch) produce(ctx context.Context, env *Env, _ int, each func(*fakefile.File) error) error {
	files, err := b(ctx, env)
	if err != nil {
		return fmt.Errorf("inner files: %w", err)
	}
	for i, f := range files {
		if err := each(f); err != nil {
			// 剩余未打包的中间文件也要清理
			for _, rest := range files[i+1:] {
				removeIntermediate(ctx, env, rest)
			}
			return fmt.Errorf("inner file %d: %w", i, err)
		}
	}
	return nil
}

// FuzzyChoice returns a Single that delegates each call to one of choices
// picked uniformly at random.
func FuzzyChoice(choices ...Single) Single {
	return func(ctx context.Context, env *Env) (*fakefile.File, error) {
		if len(choices) == 0 {
			return nil, ErrNoInnerFunc
		}
		return choices[env.Faker.IntRange(0, len(choices)-1)](ctx, env)
	}
}

// List returns a Batch calling each function once, in order.
func List(funcs ...Single) Batch {
	return func(ctx context.Context, env *Env) ([]*fakefile.File, error) {
		files := make([]*fakefile.File, 0, len(funcs))
		for i, fn := range funcs {
			f, err := fn(ctx, env)
			if err != nil {
				for _, done := range files {
					removeIntermediate(ctx, env, done)
				}
				return nil, fmt.Errorf("list item %d: %w", i, err)
			}
			files = append(files, f)
		}
		return files, nil
	}
}

// Options controls one composition.
type Options struct {
	Count     int
	Create    InnerFunc
	Directory string
}

// Packer receives the bytes of each inner file under its arc-name.
type Packer interface {
	Pack(name string, data []byte) error
}

// PackerFunc 函数形式的 Packer
type PackerFunc func(name string, data []byte) error

func (f PackerFunc) Pack(name string, data []byte) error { return f(name, data) }

// Result lists what was packed.
type Result struct {
	Files []string
	Inner map[string]*fakefile.File
}

// Compose runs opts.Create in a child environment of env and packs every
// produced file. Intermediates are unlinked right after packing, and on
// failure as well. Arc-name collisions are not deduplicated.
func Compose(ctx context.Context, env *Env, packer Packer, opts Options) (*Result, error) {
	if opts.Create == nil {
		return nil, ErrNoInnerFunc
	}
	if opts.Count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, opts.Count)
	}
	if env.Scratch == nil {
		return nil, errors.New("composer: no scratch storage")
	}
	child, err := env.Child()
	if err != nil {
		return nil, err
	}

	result := &Result{Inner: make(map[string]*fakefile.File)}
	pack := func(f *fakefile.File) error {
		if f == nil || f.Data == nil {
			return errors.New("composer: inner function returned no file")
		}
		defer removeIntermediate(ctx, child, f)

		data, err := child.Scratch.ReadBytes(ctx, f.Data.Filename)
		if err != nil {
			return err
		}
		name := arcName(opts.Directory, f)
		if err := packer.Pack(name, data); err != nil {
			return fmt.Errorf("failed to pack %s: %w", name, err)
		}
		result.Files = append(result.Files, name)
		result.Inner[name] = f
		return nil
	}

	if err := opts.Create.produce(ctx, child, opts.Count, pack); err != nil {
		return nil, err
	}

	child.logger().Debug("inner files packed",
		zap.Int("depth", child.Depth),
		zap.Int("files", len(result.Files)))
	return result, nil
}

func arcName(directory string, f *fakefile.File) string {
	base := filepath.Base(f.Data.Filename)
	if directory == "" {
		return base
	}
	return path.Join(filepath.ToSlash(directory), base)
}

func removeIntermediate(ctx context.Context, env *Env, f *fakefile.File) {
	if f == nil || f.Data == nil {
		return
	}
	if err := env.Scratch.Unlink(ctx, f.Data.Filename); err != nil {
		env.logger().Warn("failed to remove intermediate file",
			zap.String("filename", f.Data.Filename),
			zap.Error(err))
	}
}
