package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tambohub/internal/geodata"
	"tambohub/pkg/models"
)

func feature(id int64) geodata.Feature {
	return geodata.Feature{
		Type:       "Feature",
		Properties: map[string]any{"id": float64(id)},
	}
}

func TestResolveUnassigned(t *testing.T) {
	j := Resolve(feature(1), nil)

	assert.Nil(t, j.Mapping)
	assert.Equal(t, TokenUnassigned, j.Token)
	assert.Equal(t, BaseStyle(TokenUnassigned), j.Style)
	assert.Equal(t, []string{"Not Assigned yet."}, j.Tooltip())
}

func TestResolveResidential(t *testing.T) {
	mappings := []models.Mapping{
		{FID: 1, MappingName: "Household #7", Type: "Household"},
	}

	j := Resolve(feature(1), mappings)
	require.NotNil(t, j.Mapping)
	assert.Equal(t, TokenResidential, j.Token)
	assert.True(t, j.Flags.Residential)
	assert.Equal(t, []string{"Household #7"}, j.Tooltip())
}

func TestResolveDualTakesPrecedence(t *testing.T) {
	mappings := []models.Mapping{
		{FID: 2, MappingName: "Household #7,Aling Nena Store", Type: "Household,Commercial"},
	}

	j := Resolve(feature(2), mappings)
	assert.Equal(t, TokenDual, j.Token)
	assert.True(t, j.Flags.Residential)
	assert.True(t, j.Flags.Commercial)

	// business lines render above the household line
	assert.Equal(t, []string{"Aling Nena Store", "Household #7"}, j.Tooltip())
}

func TestResolveCommercialAndInstitutional(t *testing.T) {
	mappings := []models.Mapping{
		{FID: 3, MappingName: "Sari-Sari Store", Type: "Commercial"},
		{FID: 4, MappingName: "Barangay Chapel", Type: "Institutional(Religious)"},
	}

	shop := Resolve(feature(3), mappings)
	assert.Equal(t, TokenCommercial, shop.Token)

	chapel := Resolve(feature(4), mappings)
	assert.Equal(t, TokenInstitutional, chapel.Token)
	assert.True(t, chapel.Flags.Institutional)
}

func TestResolveLegacyCompositeFallsBack(t *testing.T) {
	// mismatched segment counts no longer decode; the substring
	// fallback keeps the row rendering
	mappings := []models.Mapping{
		{FID: 5, MappingName: "Store", Type: "Commercial,Household"},
	}

	j := Resolve(feature(5), mappings)
	assert.True(t, j.Flags.Commercial)
	assert.True(t, j.Flags.Residential)
	assert.Equal(t, TokenCommercial, j.Token) // no "Household #<n>" in the label
}

func TestResolveFirstMatchWins(t *testing.T) {
	mappings := []models.Mapping{
		{ID: 1, FID: 6, MappingName: "First", Type: "Commercial"},
		{ID: 2, FID: 6, MappingName: "Second", Type: "Commercial"},
	}

	j := Resolve(feature(6), mappings)
	require.NotNil(t, j.Mapping)
	assert.Equal(t, int64(1), j.Mapping.ID)
	assert.Equal(t, "First", j.Label)
}

func TestResolveDoesNotMutateInputs(t *testing.T) {
	f := feature(7)
	mappings := []models.Mapping{
		{FID: 7, MappingName: "Household #2", Type: "Household"},
	}

	_ = Resolve(f, mappings)
	_ = Resolve(f, mappings)

	assert.Equal(t, "Household #2", mappings[0].MappingName)
	assert.Equal(t, "Household", mappings[0].Type)
}

func TestResolveAll(t *testing.T) {
	features := []geodata.Feature{feature(1), feature(2)}
	mappings := []models.Mapping{
		{FID: 2, MappingName: "Shop", Type: "Commercial"},
	}

	joined := ResolveAll(features, mappings)
	require.Len(t, joined, 2)
	assert.Equal(t, TokenUnassigned, joined[0].Token)
	assert.Equal(t, TokenCommercial, joined[1].Token)
}

func TestHoverStyleDiffersFromBase(t *testing.T) {
	for _, tok := range []StyleToken{
		TokenUnassigned, TokenResidential, TokenCommercial, TokenInstitutional, TokenDual,
	} {
		assert.NotEqual(t, BaseStyle(tok), HoverStyle(tok), "token %s", tok)
	}
}
