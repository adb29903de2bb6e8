package cache

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/etapa/internal/metrics"
	"github.com/thenoetrevino/etapa/internal/models"
)

func sampleBoard(tenant string) *models.Board {
	return models.NewBoard(tenant, []*models.Stage{
		{ID: "s1", TenantID: tenant, Label: "Nouveau", Position: 1, Deals: []*models.Deal{}},
		{ID: "s2", TenantID: tenant, Label: "Qualifié", Position: 2, Deals: []*models.Deal{
			{ID: "x", StageID: "s2", Title: "DealX", Tags: []string{}},
		}},
	})
}

func TestGetMissThenPut(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	c := New(m)

	_, ok := c.Get("acme")
	assert.False(t, ok)

	c.Put("acme", sampleBoard("acme"))
	got, ok := c.Get("acme")
	require.True(t, ok)
	assert.Equal(t, sampleBoard("acme"), got)
	assert.Equal(t, 1, c.Len())

	snap := m.GetSnapshot()
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(1), snap.CacheMisses)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	t.Parallel()

	c := New(nil)
	b := sampleBoard("acme")
	c.Put("acme", b)

	// Mutating the original or a returned copy never reaches the cache
	b.Stages[0].Label = "changed"
	got, _ := c.Get("acme")
	got.Stages[1].Deals = nil

	again, _ := c.Get("acme")
	assert.Equal(t, "Nouveau", again.Stages[0].Label)
	assert.Len(t, again.Stages[1].Deals, 1)
}

func TestPatchAppliesInPlace(t *testing.T) {
	t.Parallel()

	c := New(nil)
	assert.False(t, c.Patch("acme", func(*models.Board) { t.Fatal("patch on missing entry") }))

	c.Put("acme", sampleBoard("acme"))
	ok := c.Patch("acme", func(b *models.Board) {
		_, err := b.MoveDeal("x", "s1", 0)
		require.NoError(t, err)
	})
	require.True(t, ok)

	got, _ := c.Get("acme")
	assert.Equal(t, "x", got.Stages[0].Deals[0].ID)
	assert.Empty(t, got.Stages[1].Deals)
}

func TestDiscardIsPerTenant(t *testing.T) {
	t.Parallel()

	c := New(nil)
	c.Put("acme", sampleBoard("acme"))
	c.Put("globex", sampleBoard("globex"))

	c.Discard("acme")
	_, ok := c.Get("acme")
	assert.False(t, ok)
	_, ok = c.Get("globex")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestConcurrentPatches(t *testing.T) {
	t.Parallel()

	c := New(nil)
	c.Put("acme", models.NewBoard("acme", []*models.Stage{{ID: "s1", Position: 1, Deals: []*models.Deal{}}}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Patch("acme", func(b *models.Board) {
				b.Stages[0].Position++
			})
			c.Get("acme")
		}()
	}
	wg.Wait()

	got, _ := c.Get("acme")
	assert.Equal(t, 21, got.Stages[0].Position)
}
