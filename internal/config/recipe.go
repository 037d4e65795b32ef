package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

//go:embed schemas/recipe.schema.json
var schemaFS embed.FS

// ErrInvalidRecipe 配方不符合 JSON Schema
var ErrInvalidRecipe = errors.New("invalid recipe")

// Recipe describes one file. Container providers list their inner files in
// Inner: with Batch every entry is generated once, in order; otherwise each
// inner file picks one entry at random.
type Recipe struct {
	Provider string          `yaml:"provider" json:"provider"`
	Options  map[string]any  `yaml:"options,omitempty" json:"options,omitempty"`
	Template []template.Step `yaml:"template,omitempty" json:"template,omitempty"`
	Inner    []Recipe        `yaml:"inner,omitempty" json:"inner,omitempty"`
	Batch    bool            `yaml:"batch,omitempty" json:"batch,omitempty"`
}

// RecipeFile is the document read by LoadRecipe.
type RecipeFile struct {
	// Count 生成的顶层文件数，默认 1
	Count  int `yaml:"count,omitempty" json:"count,omitempty"`
	Recipe `yaml:",inline"`
}

// LoadRecipe 读取并校验 YAML 或 JSON 配方
func LoadRecipe(path string) (*RecipeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	return ParseRecipe(data)
}

// ParseRecipe validates data against the recipe schema and decodes it.
func ParseRecipe(data []byte) (*RecipeFile, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse recipe: %w", err)
	}
	if err := validateRecipe(doc); err != nil {
		return nil, err
	}

	var rf RecipeFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to decode recipe: %w", err)
	}
	if rf.Count == 0 {
		rf.Count = 1
	}
	return &rf, nil
}

func validateRecipe(doc any) error {
	schemaBytes, err := schemaFS.ReadFile("schemas/recipe.schema.json")
	if err != nil {
		return fmt.Errorf("failed to load recipe schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecipe, strings.Join(msgs, "; "))
}
