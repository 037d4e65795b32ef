package providers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	"github.com/nerdneilsfield/go-faker-file/pkg/registry"
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

func newEnv(t *testing.T) *Env {
	t.Helper()
	root := t.TempDir()
	st, err := storage.NewFileSystem(root, "out")
	require.NoError(t, err)
	scratch, err := storage.NewFileSystem(root, "scratch")
	require.NoError(t, err)
	faker, err := content.New(content.WithSeed(1))
	require.NoError(t, err)

	env := NewEnv(faker, st, registry.New(nil), zap.NewNop())
	env.Scratch = scratch
	return env
}

// failingStorage 写入总是失败的存储
type failingStorage struct {
	*storage.FileSystem
}

func (failingStorage) WriteBytes(context.Context, string, []byte) (int, error) {
	return 0, errors.New("disk full")
}

func (s failingStorage) WriteText(ctx context.Context, filename, _, _ string) (int, error) {
	return s.WriteBytes(ctx, filename, nil)
}

func TestSaveText(t *testing.T) {
	env := newEnv(t)

	f, err := env.Save(context.Background(), FileOptions{Basename: "hello"}, Output{
		Provider:  "txt",
		Extension: "txt",
		Text:      "hello world",
		Data:      &fakefile.Data{Content: "hello world"},
	})
	require.NoError(t, err)

	assert.Equal(t, "out/hello.txt", f.Path)
	assert.Equal(t, env.Storage, f.Data.Storage)
	assert.Equal(t, 1, env.Registry.Len())

	got, err := os.ReadFile(f.Data.Filename)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestSaveStorageOverride(t *testing.T) {
	env := newEnv(t)
	other, err := storage.NewFileSystem(t.TempDir(), "elsewhere")
	require.NoError(t, err)

	f, err := env.Save(context.Background(), FileOptions{Storage: other, Prefix: "x_"}, Output{
		Provider: "bin", Extension: "bin", Payload: []byte{1, 2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, other.Dir(), filepath.Dir(f.Data.Filename))
}

func TestSaveFailureRegistersNothing(t *testing.T) {
	env := newEnv(t)
	fs := env.Storage.(*storage.FileSystem)

	_, err := env.Save(context.Background(), FileOptions{Storage: failingStorage{fs}}, Output{
		Provider: "txt", Extension: "txt", Text: "lost",
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.Zero(t, env.Registry.Len())
}

func TestRaw(t *testing.T) {
	env := newEnv(t)

	raw, err := env.Raw(Output{Provider: "txt", Extension: "txt", Text: "héllo", Encoding: "latin1"})
	require.NoError(t, err)
	assert.Equal(t, []byte{'h', 0xe9, 'l', 'l', 'o'}, raw.Content)
	assert.NotNil(t, raw.Data)
	assert.Zero(t, env.Registry.Len())

	_, err = env.Raw(Output{Provider: "txt", Text: "x", Encoding: "klingon"})
	assert.ErrorIs(t, err, storage.ErrUnknownEncoding)
}

func TestFromComposerPinsScratch(t *testing.T) {
	env := newEnv(t)
	ce, err := env.Composer()
	require.NoError(t, err)

	inner := FromComposer(ce)
	assert.Nil(t, inner.Registry)

	other, err := storage.NewFileSystem(t.TempDir(), "ignored")
	require.NoError(t, err)
	f, err := inner.Save(context.Background(), FileOptions{Storage: other, Basename: "inner"}, Output{
		Provider: "txt", Extension: "txt", Text: "inside",
	})
	require.NoError(t, err)
	assert.Equal(t, env.Scratch.Dir(), filepath.Dir(f.Data.Filename))
	assert.Zero(t, env.Registry.Len())
}

func TestComposeDefaults(t *testing.T) {
	env := newEnv(t)
	packed := map[string][]byte{}
	packer := composer.PackerFunc(func(name string, data []byte) error {
		packed[name] = data
		return nil
	})
	create := Inner(func(ctx context.Context, e *Env) (*fakefile.File, error) {
		return e.Save(ctx, FileOptions{Prefix: "n_"}, Output{Provider: "txt", Extension: "txt", Text: "n"})
	})

	data, err := env.Compose(context.Background(), packer, ContainerOptions{Directory: "d"}, 3, create)
	require.NoError(t, err)
	assert.Len(t, data.Files, 3)
	assert.Len(t, packed, 3)
	assert.Len(t, data.Inner, 3)
	assert.Zero(t, env.Registry.Len())
}

// recordingStrategy 记录收到的选项
type recordingStrategy struct {
	generator.Base
	options map[string]any
}

func TestStrategyLayering(t *testing.T) {
	const family = "providers-test"
	var got *recordingStrategy
	generator.MustRegister(family, "rec", func(options map[string]any, _ *zap.Logger) (generator.Strategy, error) {
		got = &recordingStrategy{options: options}
		return got, nil
	})

	env := newEnv(t)
	env.Generators = map[string]map[string]any{
		family: {"generator": "rec", "width": 100, "height": 50},
	}

	_, name, err := env.Strategy(family, "missing", StrategyOptions{
		GeneratorOptions: map[string]any{"height": 80},
	})
	require.NoError(t, err)
	assert.Equal(t, "rec", name)
	assert.Equal(t, map[string]any{"width": 100, "height": 80}, got.options)

	_, _, err = env.Strategy(family, "missing", StrategyOptions{Generator: "nope"})
	assert.Error(t, err)

	_, _, _, err = env.RunStrategy(context.Background(), family, "rec", StrategyOptions{Generator: "rec"}, template.Text("x"))
	assert.ErrorIs(t, err, generator.ErrNotImplemented)
}

func TestGenerationNeedsFaker(t *testing.T) {
	env := &Env{}
	_, err := env.Generation()
	assert.ErrorIs(t, err, ErrNoFaker)
}
