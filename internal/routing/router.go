package routing

import (
	"strings"

	"github.com/Mirxa893/zola/internal/models"
)

// Lookup finds a model descriptor without blocking.
type Lookup interface {
	Lookup(modelID string) (models.Descriptor, bool)
}

// Router derives the provider family that serves a model.
// Order:
// - a descriptor known to the registry => its ProviderID
// - id prefixed "openrouter:" or "openrouter/" => openrouter
// - anything else => "" (no provider, so no credential is looked up)
type Router struct {
	lookup Lookup
}

func NewRouter(lookup Lookup) *Router { return &Router{lookup: lookup} }

func (r *Router) ProviderForModel(model string) string {
	if model == "" {
		return ""
	}
	if r.lookup != nil {
		if d, ok := r.lookup.Lookup(model); ok {
			return d.ProviderID
		}
	}
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, models.ProviderOpenRouter+":"),
		strings.HasPrefix(m, models.ProviderOpenRouter+"/"):
		return models.ProviderOpenRouter
	default:
		return ""
	}
}
