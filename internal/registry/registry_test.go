package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mirxa893/zola/internal/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type countingSource struct {
	calls   atomic.Int32
	fail    atomic.Bool
	entries []models.Descriptor
}

func (s *countingSource) Fetch(context.Context) ([]models.Descriptor, error) {
	s.calls.Add(1)
	if s.fail.Load() {
		return nil, errors.New("source unavailable")
	}
	return s.entries, nil
}

func testModels() []models.Descriptor {
	return []models.Descriptor{
		{ID: "openrouter:a", ProviderID: models.ProviderOpenRouter, Name: "A"},
		{ID: "other:b", ProviderID: "other", Name: "B"},
		{ID: "openrouter:c", ProviderID: models.ProviderOpenRouter, Name: "C"},
	}
}

func newTestRegistry(t *testing.T, src Source) (*Registry, *fakeClock) {
	t.Helper()
	clk := newFakeClock()
	return New(src, WithClock(clk.Now)), clk
}

func TestAll_ServesCacheWithinTTL(t *testing.T) {
	src := &countingSource{entries: testModels()}
	reg, clk := newTestRegistry(t, src)
	ctx := context.Background()

	first := reg.All(ctx)
	clk.Advance(DefaultTTL - time.Second)
	second := reg.All(ctx)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestAll_RefreshesOnceAfterExpiry(t *testing.T) {
	src := &countingSource{entries: testModels()}
	reg, clk := newTestRegistry(t, src)
	ctx := context.Background()

	reg.All(ctx)
	clk.Advance(DefaultTTL)
	reg.All(ctx)
	reg.All(ctx)

	assert.Equal(t, int32(2), src.calls.Load())
}

func TestAll_ServesStaleSnapshotWhenRefreshFails(t *testing.T) {
	src := &countingSource{entries: testModels()}
	reg, clk := newTestRegistry(t, src)
	ctx := context.Background()

	before := reg.All(ctx)
	src.fail.Store(true)
	clk.Advance(DefaultTTL + time.Minute)

	var after []models.Descriptor
	require.NotPanics(t, func() { after = reg.All(ctx) })
	assert.Equal(t, before, after)
	assert.Equal(t, int32(2), src.calls.Load())

	// the stale snapshot is not restamped, so the next call retries
	reg.All(ctx)
	assert.Equal(t, int32(3), src.calls.Load())
}

func TestAll_FallsBackToCatalogWhenNeverFetched(t *testing.T) {
	src := &countingSource{}
	src.fail.Store(true)
	reg, _ := newTestRegistry(t, src)

	got := reg.All(context.Background())

	assert.Equal(t, models.Catalog(), got)
}

func TestInvalidate_ForcesRefreshInsideTTL(t *testing.T) {
	src := &countingSource{entries: testModels()}
	reg, clk := newTestRegistry(t, src)
	ctx := context.Background()

	reg.All(ctx)
	clk.Advance(time.Millisecond)
	reg.Invalidate()
	reg.All(ctx)

	assert.Equal(t, int32(2), src.calls.Load())
}

func TestInvalidate_ThenFailedRefreshUsesCatalog(t *testing.T) {
	src := &countingSource{entries: testModels()}
	reg, _ := newTestRegistry(t, src)
	ctx := context.Background()

	reg.All(ctx)
	reg.Invalidate()
	src.fail.Store(true)

	assert.Equal(t, models.Catalog(), reg.All(ctx))
}

func TestAll_ReturnsCopy(t *testing.T) {
	src := &countingSource{entries: testModels()}
	reg, _ := newTestRegistry(t, src)
	ctx := context.Background()

	got := reg.All(ctx)
	got[0].Name = "mutated"

	assert.Equal(t, "A", reg.All(ctx)[0].Name)
	assert.Equal(t, "A", src.entries[0].Name)
}

func TestAllWithAccessFlags_CatalogOrderAllAccessible(t *testing.T) {
	reg, _ := newTestRegistry(t, StaticSource())

	got := reg.AllWithAccessFlags(context.Background())

	catalog := models.Catalog()
	require.Len(t, got, len(catalog))
	for i, m := range got {
		assert.True(t, m.Accessible)
		assert.Equal(t, catalog[i], m.Descriptor)
	}
}

func TestAllWithAccessFlags_DropsUnsupportedProviders(t *testing.T) {
	reg, _ := newTestRegistry(t, &countingSource{entries: testModels()})

	got := reg.AllWithAccessFlags(context.Background())

	require.Len(t, got, 2)
	assert.Equal(t, "openrouter:a", got[0].ID)
	assert.Equal(t, "openrouter:c", got[1].ID)
}

func TestForProvider_FiltersWithoutExtraRefresh(t *testing.T) {
	src := &countingSource{entries: testModels()}
	reg, _ := newTestRegistry(t, src)
	ctx := context.Background()

	other := reg.ForProvider(ctx, "other")
	none := reg.ForProvider(ctx, "missing")

	require.Len(t, other, 1)
	assert.Equal(t, "other:b", other[0].ID)
	assert.True(t, other[0].Accessible)
	assert.Empty(t, none)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestForProviders_ConcatenatesInRequestOrder(t *testing.T) {
	reg, _ := newTestRegistry(t, &countingSource{entries: testModels()})

	got := reg.ForProviders(context.Background(), []string{"other", models.ProviderOpenRouter, "missing"})

	ids := make([]string, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"other:b", "openrouter:a", "openrouter:c"}, ids)
}

func TestLookup_NeverRefreshes(t *testing.T) {
	src := &countingSource{entries: testModels()}
	reg, _ := newTestRegistry(t, src)

	// no snapshot yet: static catalog
	first := models.Catalog()[0]
	got, ok := reg.Lookup(first.ID)
	require.True(t, ok)
	assert.Equal(t, first, got)
	_, ok = reg.Lookup("other:b")
	assert.False(t, ok)
	assert.Equal(t, int32(0), src.calls.Load())

	// with a snapshot: snapshot only
	reg.All(context.Background())
	got, ok = reg.Lookup("other:b")
	require.True(t, ok)
	assert.Equal(t, "B", got.Name)
	_, ok = reg.Lookup(first.ID)
	assert.False(t, ok)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestRefresh_KeepsSnapshotOnFailure(t *testing.T) {
	src := &countingSource{entries: testModels()}
	reg, _ := newTestRegistry(t, src)
	ctx := context.Background()

	require.NoError(t, reg.Refresh(ctx))
	src.fail.Store(true)
	assert.Error(t, reg.Refresh(ctx))

	_, ok := reg.Lookup("other:b")
	assert.True(t, ok)
}

func TestAll_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	a := []models.Descriptor{{ID: "a1", ProviderID: "p"}, {ID: "a2", ProviderID: "p"}}
	b := []models.Descriptor{{ID: "b1", ProviderID: "p"}, {ID: "b2", ProviderID: "p"}}
	var flip atomic.Bool
	src := SourceFunc(func(context.Context) ([]models.Descriptor, error) {
		if flip.Load() {
			return b, nil
		}
		return a, nil
	})
	reg := New(src, WithTTL(time.Nanosecond))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				flip.Store(j%2 == 0)
				if j%17 == 0 {
					reg.Invalidate()
				}
				got := reg.All(ctx)
				if len(got) != 2 || got[0].ID[0] != got[1].ID[0] {
					t.Errorf("observed mixed snapshot: %+v", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
