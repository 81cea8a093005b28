package kpi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefaults(t *testing.T) {
	reg := NewRegistry()
	catalog, ok := reg.Catalog("marketing.campaigns")
	require.True(t, ok)
	assert.Equal(t, []string{"spend", "revenue", "roas", "conversions", "cpa", "ctr"}, catalog.IDs())

	_, ok = NewEmptyRegistry().Catalog("marketing.campaigns")
	assert.False(t, ok)
}

func TestDefaultCatalogsAreCopies(t *testing.T) {
	first := DefaultCatalogs()
	first[0].Tiles[0].Label = "changed"
	assert.Equal(t, "Spend", DefaultCatalogs()[0].Tiles[0].Label)
}

func withCatalogHook(t *testing.T, hook CatalogHook) {
	t.Helper()
	globalHookMu.Lock()
	saved := globalHooks
	globalHookMu.Unlock()
	RegisterCatalogHook(hook)
	t.Cleanup(func() {
		globalHookMu.Lock()
		globalHooks = saved
		globalHookMu.Unlock()
	})
}

func TestRegistryRegisterAllReportsInvalidCatalog(t *testing.T) {
	reg := NewEmptyRegistry()
	err := reg.RegisterAll([]Catalog{
		{ReportKey: "ok", Tiles: []Tile{{ID: "a", Label: "A"}}},
		{ReportKey: "dup", Tiles: []Tile{{ID: "a", Label: "A"}, {ID: "a", Label: "Again"}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"dup"`)

	_, ok := reg.Catalog("ok")
	assert.True(t, ok)
	_, ok = reg.Catalog("dup")
	assert.False(t, ok)
}

func TestDefaultCatalogsRegisterCleanly(t *testing.T) {
	reg, err := LoadRegistry()
	require.NoError(t, err)
	assert.Len(t, reg.Catalogs(), len(DefaultCatalogs()))
}

func TestLoadRegistryReturnsHookError(t *testing.T) {
	withCatalogHook(t, func(reg *Registry) error {
		return reg.Register(Catalog{ReportKey: "broken", Tiles: []Tile{{ID: "a"}}})
	})

	_, err := LoadRegistry()
	assert.Error(t, err)
	assert.Panics(t, func() { NewRegistry() })
}

func TestRegistryRegisterValidates(t *testing.T) {
	reg := NewEmptyRegistry()
	assert.Error(t, reg.Register(Catalog{}))
	assert.Error(t, reg.Register(Catalog{ReportKey: "x", Tiles: []Tile{{ID: "a"}}}))
	require.NoError(t, reg.Register(Catalog{ReportKey: "x", Tiles: []Tile{{ID: "a", Label: "A"}}}))
	require.NoError(t, reg.Register(Catalog{ReportKey: "x", Tiles: []Tile{{ID: "b", Label: "B"}}}))

	catalog, ok := reg.Catalog("x")
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, catalog.IDs(), "register replaces by key")
}

func TestRegistryLoadManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	reg := NewRegistry()
	doc, err := reg.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	var keys []string
	for _, catalog := range reg.Catalogs() {
		keys = append(keys, catalog.ReportKey)
	}
	assert.Equal(t, []string{"growth.referrals", "marketing.campaigns", "marketing.coupons", "marketing.journeys"}, keys)
	assert.Error(t, reg.LoadManifest(nil))
}

func TestCatalogIDsDeduplicates(t *testing.T) {
	catalog := Catalog{ReportKey: "r", Tiles: []Tile{{ID: "a", Label: "first"}, {ID: "b"}, {ID: "a", Label: "second"}}}
	assert.Equal(t, []string{"a", "b"}, catalog.IDs())
	tiles := catalog.TilesFor([]string{"b", "zzz", "a"})
	require.Len(t, tiles, 2)
	assert.Equal(t, "first", tiles[1].Label)
}
