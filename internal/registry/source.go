package registry

import (
	"context"

	"github.com/Mirxa893/zola/internal/models"
)

// Source produces a complete model list. A Source may fail; the registry
// decides what to serve in that case.
type Source interface {
	Fetch(ctx context.Context) ([]models.Descriptor, error)
}

type SourceFunc func(ctx context.Context) ([]models.Descriptor, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]models.Descriptor, error) { return f(ctx) }

// StaticSource serves the built-in catalog.
func StaticSource() Source {
	return SourceFunc(func(context.Context) ([]models.Descriptor, error) {
		return models.Catalog(), nil
	})
}
