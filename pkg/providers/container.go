package providers

import (
	"context"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
)

// ContainerOptions are accepted by providers that embed other files.
// A zero Count selects the provider's default.
type ContainerOptions struct {
	Count     int    `mapstructure:"count"`
	Directory string `mapstructure:"directory"`
	// Create 生成内部文件，为空时使用提供者的默认内部文件
	Create composer.InnerFunc `mapstructure:"-"`
}

// Compose fills packer with the inner files described by co and returns the
// container metadata.
func (e *Env) Compose(ctx context.Context, packer composer.Packer, co ContainerOptions, defaultCount int, defaultCreate composer.InnerFunc) (*fakefile.Data, error) {
	ce, err := e.Composer()
	if err != nil {
		return nil, err
	}
	count := co.Count
	if count == 0 {
		count = defaultCount
	}
	create := co.Create
	if create == nil {
		create = defaultCreate
	}

	res, err := composer.Compose(ctx, ce, packer, composer.Options{
		Count:     count,
		Create:    create,
		Directory: co.Directory,
	})
	if err != nil {
		return nil, err
	}
	e.logger().Debug("container composed",
		zap.Int("depth", e.Depth),
		zap.Strings("files", res.Files))
	return &fakefile.Data{Files: res.Files, Inner: res.Inner}, nil
}
