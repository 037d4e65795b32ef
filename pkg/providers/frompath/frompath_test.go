package frompath

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-faker-file/internal/test"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
)

func writeSource(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestGenerate(t *testing.T) {
	env := test.NewEnv(t)
	src := writeSource(t, "invoice.pdf", "%PDF-1.4 fake")

	f, err := New(env).Generate(context.Background(), Options{
		FileOptions: providers.FileOptions{Prefix: "copy_"},
		Path:        src,
	})
	require.NoError(t, err)
	assert.Equal(t, ".pdf", filepath.Ext(f.Path))
	assert.Equal(t, src, f.Data.Extra["source"])

	data, err := os.ReadFile(f.Data.Filename)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
	assert.Equal(t, 1, env.Registry.Len())
}

func TestGenerateRaw(t *testing.T) {
	env := test.NewEnv(t)
	raw, err := New(env).GenerateRaw(context.Background(), Options{Path: writeSource(t, "a.txt", "abc")})
	require.NoError(t, err)
	assert.Equal(t, "abc", string(raw.Content))
	assert.Zero(t, env.Registry.Len())
}

func TestErrors(t *testing.T) {
	p := New(test.NewEnv(t))
	_, err := p.Generate(context.Background(), Options{})
	assert.ErrorContains(t, err, "path is required")

	_, err = p.Generate(context.Background(), Options{Path: writeSource(t, "Makefile", "all:")})
	assert.ErrorIs(t, err, storage.ErrMissingExtension)

	_, err = p.Generate(context.Background(), Options{Path: filepath.Join(t.TempDir(), "missing.txt")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
