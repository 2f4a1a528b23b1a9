package registry

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Mirxa893/zola/internal/metrics"
	"github.com/Mirxa893/zola/internal/models"
)

// DefaultTTL is how long a fetched snapshot is served without refetching.
const DefaultTTL = 5 * time.Minute

// AccessibleModel is a descriptor annotated with whether the caller may use it.
type AccessibleModel struct {
	models.Descriptor
	Accessible bool `json:"accessible"`
}

type snapshot struct {
	entries   []models.Descriptor
	fetchedAt time.Time
}

// Registry is a time-bounded cache of model descriptors in front of a Source.
// Reads never fail: a failed refresh serves the previous snapshot, or the
// static catalog when nothing was ever fetched.
type Registry struct {
	log       zerolog.Logger
	src       Source
	ttl       time.Duration
	now       func() time.Time
	supported string

	// nil means never fetched or invalidated. Always replaced wholesale.
	snap atomic.Pointer[snapshot]
}

type Option func(*Registry)

func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

func New(src Source, opts ...Option) *Registry {
	if src == nil {
		src = StaticSource()
	}
	r := &Registry{
		log:       zerolog.Nop(),
		src:       src,
		ttl:       DefaultTTL,
		now:       time.Now,
		supported: models.ProviderOpenRouter,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// All returns the current model list, refreshing it when the cached snapshot
// is missing or older than the TTL.
func (r *Registry) All(ctx context.Context) []models.Descriptor {
	now := r.now()
	if s := r.snap.Load(); s != nil && now.Sub(s.fetchedAt) < r.ttl {
		return slices.Clone(s.entries)
	}

	entries, err := r.fetch(ctx, now)
	if err == nil {
		return entries
	}

	if prev := r.snap.Load(); prev != nil {
		metrics.RegistryRefreshesTotal.WithLabelValues(metrics.RefreshStale).Inc()
		r.log.Warn().Err(err).
			Time("fetched_at", prev.fetchedAt).
			Msg("model refresh failed, serving stale snapshot")
		return slices.Clone(prev.entries)
	}

	metrics.RegistryRefreshesTotal.WithLabelValues(metrics.RefreshFallback).Inc()
	r.log.Warn().Err(err).Msg("model refresh failed, using static catalog")
	return models.Catalog()
}

// Refresh fetches from the source regardless of the TTL. On failure the
// current snapshot is left in place.
func (r *Registry) Refresh(ctx context.Context) error {
	_, err := r.fetch(ctx, r.now())
	if err != nil {
		r.log.Warn().Err(err).Msg("scheduled model refresh failed")
	}
	return err
}

func (r *Registry) fetch(ctx context.Context, now time.Time) ([]models.Descriptor, error) {
	entries, err := r.src.Fetch(ctx)
	if err != nil {
		metrics.RegistryRefreshesTotal.WithLabelValues(metrics.RefreshFailed).Inc()
		return nil, err
	}
	s := &snapshot{entries: slices.Clone(entries), fetchedAt: now}
	r.snap.Store(s)
	metrics.RegistryRefreshesTotal.WithLabelValues(metrics.RefreshOK).Inc()
	r.log.Debug().Int("count", len(entries)).Msg("model registry refreshed")
	return slices.Clone(s.entries), nil
}

// AllWithAccessFlags returns the models of the supported provider, each marked
// accessible. Descriptors of other providers are dropped.
func (r *Registry) AllWithAccessFlags(ctx context.Context) []AccessibleModel {
	return r.filter(r.All(ctx), r.supported)
}

// ForProvider returns the models whose ProviderID equals providerID, each
// marked accessible, in catalog order.
func (r *Registry) ForProvider(ctx context.Context, providerID string) []AccessibleModel {
	return r.filter(r.All(ctx), providerID)
}

// ForProviders concatenates ForProvider over providerIDs, keeping the order of
// the ids. Lookups run concurrently.
func (r *Registry) ForProviders(ctx context.Context, providerIDs []string) []AccessibleModel {
	parts := make([][]AccessibleModel, len(providerIDs))
	var g errgroup.Group
	for i, id := range providerIDs {
		i, id := i, id
		g.Go(func() error {
			parts[i] = r.ForProvider(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	var out []AccessibleModel
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Lookup finds a model without blocking on I/O. It consults the cached
// snapshot when there is one, the static catalog otherwise, and never
// triggers a refresh.
func (r *Registry) Lookup(modelID string) (models.Descriptor, bool) {
	if s := r.snap.Load(); s != nil {
		for _, m := range s.entries {
			if m.ID == modelID {
				return m, true
			}
		}
		return models.Descriptor{}, false
	}
	return models.Find(modelID)
}

// Invalidate drops the cached snapshot; the next All refetches.
func (r *Registry) Invalidate() {
	r.snap.Store(nil)
}

func (r *Registry) filter(all []models.Descriptor, providerID string) []AccessibleModel {
	out := make([]AccessibleModel, 0, len(all))
	for _, m := range all {
		if m.ProviderID != providerID {
			continue
		}
		out = append(out, AccessibleModel{Descriptor: m, Accessible: true})
	}
	return out
}
