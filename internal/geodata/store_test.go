package geodata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	store, err := Load("testdata")
	require.NoError(t, err)

	assert.Len(t, store.Border.Features, 1)
	assert.Len(t, store.Zones.Features, 2)
	assert.Len(t, store.Buildings.Features, 4)

	// roads-*.json merged in filename order
	require.Len(t, store.Roads.Features, 3)
	assert.Equal(t, "Acacia Street", store.Roads.Features[0].Name())
	assert.Equal(t, "Mabini Street", store.Roads.Features[1].Name())
	assert.Equal(t, "FeatureCollection", store.Roads.Type)
}

func TestLoadMissingLayer(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestBuildingLookup(t *testing.T) {
	store, err := Load("testdata")
	require.NoError(t, err)

	f, ok := store.Building(42)
	require.True(t, ok)
	// first occurrence wins over the duplicate id further down
	assert.Equal(t, "Corner Lot", f.Name())

	// string-typed ids coerce
	f, ok = store.Building(43)
	require.True(t, ok)
	assert.Equal(t, FID(43), f.FID())

	_, ok = store.Building(999)
	assert.False(t, ok)
}

func TestFeatureFID(t *testing.T) {
	assert.Equal(t, FID(7), Feature{Properties: map[string]any{"id": float64(7)}}.FID())
	assert.Equal(t, FID(7), Feature{Properties: map[string]any{"id": "7"}}.FID())
	assert.Equal(t, FID(-1), Feature{Properties: map[string]any{"id": "x"}}.FID())
	assert.Equal(t, FID(-1), Feature{Properties: map[string]any{}}.FID())
	assert.Equal(t, FID(-1), Feature{}.FID())
}

func TestFeatureName(t *testing.T) {
	assert.Equal(t, "Chapel", Feature{Properties: map[string]any{"name": "Chapel"}}.Name())
	assert.Equal(t, "", Feature{Properties: map[string]any{"name": 3}}.Name())
	assert.Equal(t, "", Feature{}.Name())
}
