package mp3

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-faker-file/internal/test"
	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
)

func TestGenerate(t *testing.T) {
	mock := test.NewMockOpenAIServer(t)
	env := test.NewEnv(t)

	f, err := New(env).Generate(context.Background(), Options{
		ContentOptions: providers.ContentOptions{Content: "Hello {{first_name}}"},
		StrategyOptions: providers.StrategyOptions{
			GeneratorOptions: map[string]any{
				"api_key":  "sk-test",
				"base_url": mock.URL + "/v1",
				"voice":    "nova",
			},
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(f.Path, ".mp3"))

	data, err := os.ReadFile(f.Data.Filename)
	require.NoError(t, err)
	assert.Equal(t, test.FakeMP3, data)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, f.Data.Content, reqs[0].Input)
	assert.Equal(t, "nova", reqs[0].Voice)
	assert.True(t, strings.HasPrefix(reqs[0].Input, "Hello "))
}

func TestGenerateV2FromEnvDefaults(t *testing.T) {
	mock := test.NewMockOpenAIServer(t)
	env := test.NewEnv(t)
	env.Generators = map[string]map[string]any{
		generator.FamilyMP3: {
			"generator": "openai_v2",
			"api_key":   "sk-test",
			"base_url":  mock.URL + "/v1/",
		},
	}

	raw, err := New(env).GenerateRaw(context.Background(), Options{
		ContentOptions: providers.ContentOptions{MaxNbChars: 120},
	})
	require.NoError(t, err)
	assert.Equal(t, test.FakeMP3, raw.Content)
	assert.Equal(t, "openai_v2", raw.Data.Extra["generator"])
	require.Len(t, mock.Requests(), 1)
	assert.Equal(t, "Bearer sk-test", mock.Requests()[0].Authorization)
}

func TestGenerateServerError(t *testing.T) {
	mock := test.NewMockOpenAIServer(t)
	mock.SetFailure(http.StatusInternalServerError)
	env := test.NewEnv(t)

	_, err := New(env).Generate(context.Background(), Options{
		StrategyOptions: providers.StrategyOptions{
			GeneratorOptions: map[string]any{
				"api_key":     "sk-test",
				"base_url":    mock.URL + "/v1",
				"max_retries": 0,
			},
		},
	})
	require.Error(t, err)
	assert.Zero(t, env.Registry.Len())
}
