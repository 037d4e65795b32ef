package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeFile(t, "empty.yaml", "debug: true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "en_US", cfg.Locale)
	assert.Equal(t, "filesystem", cfg.Storage.Backend)
	assert.Equal(t, 5, cfg.Generation.DefaultCount)
	assert.Equal(t, 16, cfg.Generation.MaxNestingDepth)
	assert.Equal(t, 22, cfg.Storage.SFTP.Port)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "fakefile.yaml", `
locale: de_DE
seed: 42
storage:
  backend: s3
  s3:
    bucket: fixtures
    region: eu-central-1
    use_path_style: true
generation:
  max_nesting_depth: 4
generators:
  mp3:
    generator: openai_v2
    voice: nova
  image:
    page_width: 640
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "de_DE", cfg.Locale)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, "fixtures", cfg.Storage.S3.Bucket)
	assert.True(t, cfg.Storage.S3.UsePathStyle)
	assert.Equal(t, 4, cfg.Generation.MaxNestingDepth)
	assert.Equal(t, "openai_v2", cfg.Generators["mp3"]["generator"])
	assert.Equal(t, "nova", cfg.Generators["mp3"]["voice"])
	assert.EqualValues(t, 640, cfg.Generators["image"]["page_width"])
}

func TestLoadConfigEnv(t *testing.T) {
	path := writeFile(t, "env.yaml", "locale: en_US\n")
	t.Setenv("FAKEFILE_LOCALE", "fr_FR")
	t.Setenv("FAKEFILE_STORAGE_BACKEND", "sftp")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "fr_FR", cfg.Locale)
	assert.Equal(t, "sftp", cfg.Storage.Backend)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Seed = 7
	cfg.Storage.Root = "/srv/fixtures"
	cfg.Generators["pdf"] = map[string]any{"generator": "canvas"}

	path := filepath.Join(t.TempDir(), "nested", "fakefile.yaml")
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), loaded.Seed)
	assert.Equal(t, "/srv/fixtures", loaded.Storage.Root)
	assert.Equal(t, "canvas", loaded.Generators["pdf"]["generator"])
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fakefile.yaml")

	written, err := InitConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	_, err = InitConfig(path, false)
	assert.ErrorContains(t, err, "already exists")

	_, err = InitConfig(path, true)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "en_US", cfg.Locale)
	assert.Equal(t, 5, cfg.Generation.DefaultCount)
}

func TestRedacted(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.S3.SecretKey = "s3cr3t"

	m := cfg.Redacted()
	st := m["storage"].(map[string]interface{})
	assert.Equal(t, "******", st["s3"].(map[string]interface{})["secret_key"])
	assert.Equal(t, "", st["sftp"].(map[string]interface{})["password"])
	assert.Equal(t, "s3cr3t", cfg.Storage.S3.SecretKey)
}

func TestParseRecipe(t *testing.T) {
	rf, err := ParseRecipe([]byte(`
count: 2
provider: zip
options:
  count: 3
  prefix: bundle_
inner:
  - provider: docx
    template:
      - modifier: heading
        params: {level: 1}
      - modifier: add_paragraph
  - provider: zip
    batch: true
    inner:
      - provider: txt
      - provider: data
        options: {format: csv}
`))
	require.NoError(t, err)

	assert.Equal(t, 2, rf.Count)
	assert.Equal(t, "zip", rf.Provider)
	assert.EqualValues(t, 3, rf.Options["count"])
	require.Len(t, rf.Inner, 2)
	assert.Len(t, rf.Inner[0].Template, 2)
	assert.Equal(t, "heading", rf.Inner[0].Template[0].Modifier)
	assert.True(t, rf.Inner[1].Batch)
	assert.Equal(t, "csv", rf.Inner[1].Inner[1].Options["format"])
}

func TestParseRecipeJSON(t *testing.T) {
	rf, err := ParseRecipe([]byte(`{"provider": "txt", "options": {"max_nb_chars": 100}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, rf.Count)
	assert.Equal(t, "txt", rf.Provider)
}

func TestParseRecipeInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing provider", "options: {}\n"},
		{"unknown field", "provider: txt\nformat: x\n"},
		{"unknown modifier", "provider: docx\ntemplate:\n  - modifier: add_chart\n"},
		{"nested count", "provider: zip\ninner:\n  - provider: txt\n    count: 3\n"},
		{"empty inner", "provider: zip\ninner: []\n"},
		{"bad count", "provider: txt\ncount: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecipe([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidRecipe)
		})
	}
}

func TestLoadRecipeFile(t *testing.T) {
	path := writeFile(t, "recipe.yaml", "provider: pdf\noptions:\n  generator: canvas\n")
	rf, err := LoadRecipe(path)
	require.NoError(t, err)
	assert.Equal(t, "canvas", rf.Options["generator"])

	_, err = LoadRecipe(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
