package catalog

import (
	"errors"
	"fmt"

	"github.com/nerdneilsfield/go-faker-file/internal/config"
	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

var (
	// ErrUnknownProvider 目录中没有该提供者
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrNotContainer 非容器提供者给出了内部文件
	ErrNotContainer = errors.New("provider cannot hold inner files")
	// ErrNoContent 提供者不接受内容模板
	ErrNoContent = errors.New("provider does not take a content template")
)

// InnerFunc combines inner generate functions: with batch each is called
// once, in order; otherwise every inner file picks one at random.
func InnerFunc(singles []composer.Single, batch bool) composer.InnerFunc {
	switch {
	case batch:
		return composer.List(singles...)
	case len(singles) == 1:
		return singles[0]
	default:
		return composer.FuzzyChoice(singles...)
	}
}

// Bind checks spec against the builder's capabilities and builds it.
func (b Builder) Bind(spec Spec) (providers.GenerateFunc, error) {
	if spec.Template != nil && !b.Content {
		return nil, fmt.Errorf("%w: %s", ErrNoContent, b.Name)
	}
	if spec.Create != nil && !b.Container {
		return nil, fmt.Errorf("%w: %s", ErrNotContainer, b.Name)
	}
	fn, err := b.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name, err)
	}
	return fn, nil
}

// Build turns a recipe, inner recipes included, into a generate function.
func (r *Registry) Build(rec config.Recipe) (providers.GenerateFunc, error) {
	b, err := r.Get(rec.Provider)
	if err != nil {
		return nil, err
	}

	spec := Spec{Options: rec.Options}
	if len(rec.Template) > 0 {
		tpl, err := template.FromSteps(rec.Template)
		if err != nil {
			return nil, fmt.Errorf("%s: template: %w", rec.Provider, err)
		}
		spec.Template = tpl
	}

	if len(rec.Inner) > 0 {
		singles := make([]composer.Single, 0, len(rec.Inner))
		for i, child := range rec.Inner {
			fn, err := r.Build(child)
			if err != nil {
				return nil, fmt.Errorf("%s: inner %d: %w", rec.Provider, i, err)
			}
			singles = append(singles, providers.Inner(fn))
		}
		spec.Create = InnerFunc(singles, rec.Batch)
	}

	return b.Bind(spec)
}

// Build 使用默认注册表构建配方
func Build(rec config.Recipe) (providers.GenerateFunc, error) {
	return DefaultRegistry.Build(rec)
}
