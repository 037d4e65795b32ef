package tar

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-faker-file/internal/test"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/txt"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/zip"
)

// entries 解压并列出归档中的文件
func entries(t *testing.T, mode string, payload []byte) map[string][]byte {
	t.Helper()
	var r io.Reader = bytes.NewReader(payload)
	switch mode {
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		require.NoError(t, err)
		defer gz.Close()
		r = gz
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		require.NoError(t, err)
		defer zr.Close()
		r = zr
	}

	out := make(map[string][]byte)
	tr := tar.NewReader(r)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(tr)
		require.NoError(t, err)
		out[h.Name] = b
	}
	return out
}

func TestGenerateCompression(t *testing.T) {
	tests := []struct {
		name        string
		compression string
		mode        string
		suffix      string
	}{
		{"plain", "", CompressionNone, ".tar"},
		{"gzip", "gzip", CompressionGzip, ".tar.gz"},
		{"zstd", "zst", CompressionZstd, ".tar.zst"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := test.NewEnv(t)

			f, err := New(env).Generate(context.Background(), Options{Compression: tt.compression})
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(f.Path, tt.suffix), f.Path)
			assert.Equal(t, tt.mode, f.Data.Extra["compression"])

			payload, err := os.ReadFile(f.Data.Filename)
			require.NoError(t, err)
			files := entries(t, tt.mode, payload)
			assert.Len(t, files, DefaultCount)
			for _, name := range f.Data.Files {
				assert.NotEmpty(t, files[name])
			}
			assert.Empty(t, test.ScratchFiles(t, env))
		})
	}
}

func TestGenerateZipInsideTar(t *testing.T) {
	env := test.NewEnv(t)

	raw, err := New(env).GenerateRaw(context.Background(), Options{
		ContainerOptions: providers.ContainerOptions{
			Count:     2,
			Directory: "archives",
			Create: zip.Inner(zip.Options{
				ContainerOptions: providers.ContainerOptions{
					Count:  1,
					Create: txt.Inner(txt.Options{ContentOptions: providers.ContentOptions{Content: "hello {{name}}"}}),
				},
			}),
		},
		Compression: CompressionGzip,
	})
	require.NoError(t, err)

	files := entries(t, CompressionGzip, raw.Content)
	require.Len(t, files, 2)
	for name, b := range files {
		assert.True(t, strings.HasPrefix(name, "archives/"), name)
		assert.Equal(t, "PK", string(b[:2]))
	}
	assert.Zero(t, env.Registry.Len())
	assert.Empty(t, test.ScratchFiles(t, env))
}

func TestGenerateErrors(t *testing.T) {
	env := test.NewEnv(t)

	_, err := New(env).Generate(context.Background(), Options{Compression: "bz2"})
	assert.ErrorContains(t, err, "unsupported compression")

	_, err = New(env).Generate(context.Background(), Options{
		ContainerOptions: providers.ContainerOptions{Count: -1},
	})
	assert.Error(t, err)
	assert.Zero(t, env.Registry.Len())
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "tar", Extension(CompressionNone))
	assert.Equal(t, "tar.gz", Extension(CompressionGzip))
	assert.Equal(t, "tar.zst", Extension(CompressionZstd))
}
