package composer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
)

// memPacker 把打包内容保存在内存中
type memPacker struct {
	names []string
	data  map[string][]byte
}

func newMemPacker() *memPacker {
	return &memPacker{data: make(map[string][]byte)}
}

func (p *memPacker) Pack(name string, data []byte) error {
	p.names = append(p.names, name)
	p.data[name] = data
	return nil
}

func newEnv(t *testing.T) *Env {
	t.Helper()
	scratch, err := storage.NewFileSystem(t.TempDir(), "")
	require.NoError(t, err)
	f, err := content.New(content.WithSeed(21))
	require.NoError(t, err)
	return &Env{Scratch: scratch, Faker: f}
}

// writer 返回在临时存储中写入指定扩展名文件的 Single
func writer(ext string) Single {
	return func(ctx context.Context, env *Env) (*fakefile.File, error) {
		name, err := env.Scratch.GenerateFilename(ext, "inner", "")
		if err != nil {
			return nil, err
		}
		if _, err := env.Scratch.WriteText(ctx, name, ext+" payload", ""); err != nil {
			return nil, err
		}
		return &fakefile.File{
			Path: env.Scratch.Relpath(name),
			Data: &fakefile.Data{Filename: name, Storage: env.Scratch, Content: ext + " payload"},
		}, nil
	}
}

func failing(err error) Single {
	return func(context.Context, *Env) (*fakefile.File, error) { return nil, err }
}

func scratchFiles(t *testing.T, env *Env) []string {
	t.Helper()
	entries, err := os.ReadDir(env.Scratch.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSingleIsCalledCountTimes(t *testing.T) {
	env := newEnv(t)
	packer := newMemPacker()

	res, err := Compose(context.Background(), env, packer, Options{Count: 7, Create: writer("txt")})
	require.NoError(t, err)

	assert.Len(t, res.Files, 7)
	assert.Len(t, res.Inner, 7)
	assert.Equal(t, packer.names, res.Files)
	for _, name := range res.Files {
		assert.Equal(t, "txt payload", string(packer.data[name]))
	}
	assert.Empty(t, scratchFiles(t, env))
}

func TestBatchIgnoresCount(t *testing.T) {
	env := newEnv(t)
	packer := newMemPacker()

	res, err := Compose(context.Background(), env, packer, Options{
		Count:  50,
		Create: List(writer("txt"), writer("docx"), writer("pdf")),
	})
	require.NoError(t, err)

	require.Len(t, res.Files, 3)
	assert.Equal(t, ".txt", filepath.Ext(res.Files[0]))
	assert.Equal(t, ".docx", filepath.Ext(res.Files[1]))
	assert.Equal(t, ".pdf", filepath.Ext(res.Files[2]))
	assert.Empty(t, scratchFiles(t, env))
}

func TestFuzzyChoiceFanOut(t *testing.T) {
	env := newEnv(t)
	packer := newMemPacker()

	res, err := Compose(context.Background(), env, packer, Options{
		Count:  10,
		Create: FuzzyChoice(writer("txt"), writer("docx"), writer("epub")),
	})
	require.NoError(t, err)

	require.Len(t, res.Files, 10)
	for _, name := range res.Files {
		assert.Contains(t, []string{".txt", ".docx", ".epub"}, filepath.Ext(name))
		assert.Equal(t, strings.TrimPrefix(filepath.Ext(name), ".")+" payload", string(packer.data[name]))
	}
}

func TestDirectoryPrefix(t *testing.T) {
	env := newEnv(t)
	res, err := Compose(context.Background(), env, newMemPacker(), Options{
		Count:     2,
		Create:    writer("txt"),
		Directory: "nested/dir",
	})
	require.NoError(t, err)
	for _, name := range res.Files {
		assert.True(t, strings.HasPrefix(name, "nested/dir/"), name)
	}
}

func TestFailureAbortsAndCleansUp(t *testing.T) {
	env := newEnv(t)
	boom := errors.New("boom")

	t.Run("single", func(t *testing.T) {
		calls := 0
		create := Single(func(ctx context.Context, e *Env) (*fakefile.File, error) {
			calls++
			if calls == 3 {
				return nil, boom
			}
			return writer("txt")(ctx, e)
		})
		_, err := Compose(context.Background(), env, newMemPacker(), Options{Count: 5, Create: create})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
		assert.Empty(t, scratchFiles(t, env))
	})

	t.Run("list", func(t *testing.T) {
		_, err := Compose(context.Background(), env, newMemPacker(), Options{
			Create: List(writer("txt"), writer("txt"), failing(boom)),
		})
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, scratchFiles(t, env))
	})

	t.Run("packer", func(t *testing.T) {
		packer := PackerFunc(func(string, []byte) error { return boom })
		_, err := Compose(context.Background(), env, packer, Options{Create: List(writer("a"), writer("b"))})
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, scratchFiles(t, env))
	})
}

func TestNestedComposition(t *testing.T) {
	env := newEnv(t)

	// container 把内部文件名列表写成一个 .box 文件
	var container func(inner InnerFunc) Single
	container = func(inner InnerFunc) Single {
		return func(ctx context.Context, e *Env) (*fakefile.File, error) {
			packer := newMemPacker()
			res, err := Compose(ctx, e, packer, Options{Count: 1, Create: inner})
			if err != nil {
				return nil, err
			}
			name, err := e.Scratch.GenerateFilename("box", "", "")
			if err != nil {
				return nil, err
			}
			if _, err := e.Scratch.WriteText(ctx, name, strings.Join(res.Files, ","), ""); err != nil {
				return nil, err
			}
			return &fakefile.File{Path: name, Data: &fakefile.Data{Filename: name, Storage: e.Scratch, Inner: res.Inner}}, nil
		}
	}

	packer := newMemPacker()
	res, err := Compose(context.Background(), env, packer, Options{Count: 1, Create: container(container(writer("txt")))})
	require.NoError(t, err)

	require.Len(t, res.Files, 1)
	outer := res.Inner[res.Files[0]]
	require.Len(t, outer.Data.Inner, 1)
	for _, mid := range outer.Data.Inner {
		require.Len(t, mid.Data.Inner, 1)
		for name := range mid.Data.Inner {
			assert.Equal(t, ".txt", filepath.Ext(name))
		}
	}
	assert.Empty(t, scratchFiles(t, env))
}

func TestMaxDepth(t *testing.T) {
	env := newEnv(t)
	env.MaxDepth = 3

	var recursive Single
	recursive = func(ctx context.Context, e *Env) (*fakefile.File, error) {
		_, err := Compose(ctx, e, newMemPacker(), Options{Count: 1, Create: recursive})
		return nil, err
	}

	_, err := Compose(context.Background(), env, newMemPacker(), Options{Count: 1, Create: recursive})
	assert.ErrorIs(t, err, ErrMaxDepth)
}

func TestInvalidOptions(t *testing.T) {
	env := newEnv(t)

	_, err := Compose(context.Background(), env, newMemPacker(), Options{Count: 1})
	assert.ErrorIs(t, err, ErrNoInnerFunc)

	_, err = Compose(context.Background(), env, newMemPacker(), Options{Count: -1, Create: writer("txt")})
	assert.ErrorIs(t, err, ErrInvalidCount)

	res, err := Compose(context.Background(), env, newMemPacker(), Options{Count: 0, Create: writer("txt")})
	require.NoError(t, err)
	assert.Empty(t, res.Files)

	_, err = Compose(context.Background(), env, newMemPacker(), Options{Count: 1, Create: FuzzyChoice()})
	assert.ErrorIs(t, err, ErrNoInnerFunc)
}

func TestChildDepth(t *testing.T) {
	env := &Env{MaxDepth: 2}
	c1, err := env.Child()
	require.NoError(t, err)
	c2, err := c1.Child()
	require.NoError(t, err)
	assert.Equal(t, 2, c2.Depth)
	_, err = c2.Child()
	assert.ErrorIs(t, err, ErrMaxDepth)
	assert.Equal(t, 0, env.Depth)
}
