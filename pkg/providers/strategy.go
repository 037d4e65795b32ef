package providers

import (
	"context"
	"fmt"

	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// StrategyOptions select the generator strategy of a format family.
type StrategyOptions struct {
	Generator        string         `mapstructure:"generator"`
	GeneratorOptions map[string]any `mapstructure:"generator_options"`
	// Strategy 直接给出策略实例时忽略上面两项
	Strategy generator.Strategy `mapstructure:"-"`
}

// strategyKey 在 Env.Generators 的族配置中选择默认策略名
const strategyKey = "generator"

// Strategy resolves the strategy for family. Options are layered: the
// environment's family defaults first, then so.GeneratorOptions.
func (e *Env) Strategy(family, defaultName string, so StrategyOptions) (generator.Strategy, string, error) {
	if so.Strategy != nil {
		return so.Strategy, fmt.Sprintf("%T", so.Strategy), nil
	}

	defaults := e.Generators[family]
	name := so.Generator
	if name == "" {
		if v, ok := defaults[strategyKey].(string); ok && v != "" {
			name = v
		}
	}
	if name == "" {
		name = defaultName
	}

	options := make(map[string]any, len(defaults)+len(so.GeneratorOptions))
	for k, v := range defaults {
		if k != strategyKey {
			options[k] = v
		}
	}
	for k, v := range so.GeneratorOptions {
		options[k] = v
	}

	s, err := generator.New(family, name, options, e.logger())
	if err != nil {
		return nil, name, err
	}
	return s, name, nil
}

// RunStrategy renders c with the resolved strategy of family.
func (e *Env) RunStrategy(ctx context.Context, family, defaultName string, so StrategyOptions, c template.Content) ([]byte, *template.Generation, string, error) {
	s, name, err := e.Strategy(family, defaultName, so)
	if err != nil {
		return nil, nil, name, err
	}
	g, err := e.Generation()
	if err != nil {
		return nil, nil, name, err
	}
	payload, err := s.Generate(ctx, c, g)
	if err != nil {
		return nil, nil, name, fmt.Errorf("%s strategy %q: %w", family, name, err)
	}
	return payload, g, name, nil
}
