package test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/registry"
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
)

// TestSeed 测试使用的固定随机种子
const TestSeed = 42

// NewFaker 创建使用固定种子的内容生成器
func NewFaker(t *testing.T) *content.Faker {
	t.Helper()
	f, err := content.New(content.WithSeed(TestSeed))
	require.NoError(t, err)
	return f
}

// NewEnv 创建测试用的提供者环境：临时目录存储、独立的注册表与临时存储
func NewEnv(t *testing.T) *providers.Env {
	t.Helper()
	root := t.TempDir()

	st, err := storage.NewFileSystem(root, "out")
	require.NoError(t, err)
	scratch, err := storage.NewFileSystem(root, "scratch")
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	env := providers.NewEnv(NewFaker(t), st, registry.New(logger), logger)
	env.Scratch = scratch
	return env
}

// ScratchFiles 列出临时存储中残留的文件
func ScratchFiles(t *testing.T, env *providers.Env) []string {
	t.Helper()
	entries, err := os.ReadDir(env.Scratch.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// OutputDir 返回环境默认存储的目录
func OutputDir(env *providers.Env) string {
	return env.Storage.(*storage.FileSystem).Dir()
}
