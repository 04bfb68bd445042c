package mapview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tambohub/internal/geodata"
	"tambohub/pkg/models"
)

func joinedFixture() []Joined {
	mappings := []models.Mapping{
		{FID: 1, MappingName: "Household #7", Type: "Household"},
		{FID: 2, MappingName: "Sari-Sari Store", Type: "Commercial"},
		{FID: 3, MappingName: "Household #8,Bakery", Type: "Household,Commercial"},
		{FID: 4, MappingName: "Barangay Hall", Type: "Institutional(Government / Civic Building)"},
	}
	features := []geodata.Feature{
		feature(1), feature(2), feature(3), feature(4), feature(5),
	}
	return ResolveAll(features, mappings)
}

func TestFilterByQuery(t *testing.T) {
	joined := joinedFixture()

	out := Filter(joined, "sari", FilterAll)
	require.Len(t, out, 1)
	assert.Equal(t, "Sari-Sari Store", out[0].Label)

	// case-insensitive
	out = Filter(joined, "SARI", FilterAll)
	require.Len(t, out, 1)

	// unclassified features have no label to match
	out = Filter(joined, "anything", FilterAll)
	assert.Empty(t, out)
}

func TestFilterByCategory(t *testing.T) {
	joined := joinedFixture()

	out := Filter(joined, "", FilterHousehold)
	assert.Len(t, out, 2) // fid 1 and the dual fid 3

	out = Filter(joined, "", FilterCommercial)
	assert.Len(t, out, 2) // fid 2 and the dual fid 3

	out = Filter(joined, "", FilterInstitution)
	require.Len(t, out, 1)
	assert.Equal(t, "Barangay Hall", out[0].Label)
}

func TestFilterCombinesQueryAndCategory(t *testing.T) {
	joined := joinedFixture()

	out := Filter(joined, "bakery", FilterHousehold)
	require.Len(t, out, 1)
	assert.Equal(t, "Household #8,Bakery", out[0].Label)

	out = Filter(joined, "bakery", FilterInstitution)
	assert.Empty(t, out)
}

func TestFilterAllPassesEverything(t *testing.T) {
	joined := joinedFixture()

	assert.Len(t, Filter(joined, "", FilterAll), len(joined))
	assert.Len(t, Filter(joined, "", ""), len(joined))
	// unknown categories behave like All rather than hiding the map
	assert.Len(t, Filter(joined, "", "Bogus"), len(joined))
}

func TestSuggest(t *testing.T) {
	mappings := []models.Mapping{
		{MappingName: "Household #7"},
		{MappingName: "Sari-Sari Store"},
		{MappingName: "Household #71"},
	}

	out := Suggest(mappings, "household #7")
	assert.Equal(t, []string{"Household #7", "Household #71"}, out)

	assert.Nil(t, Suggest(mappings, ""))
	assert.Nil(t, Suggest(mappings, "   "))
	assert.Empty(t, Suggest(mappings, "zzz"))
}

func TestSuggestCapsAtFive(t *testing.T) {
	mappings := make([]models.Mapping, 0, 8)
	for i := 0; i < 8; i++ {
		mappings = append(mappings, models.Mapping{
			MappingName: fmt.Sprintf("Household #%d", i),
		})
	}

	out := Suggest(mappings, "household")
	assert.Len(t, out, 5)
	assert.Equal(t, "Household #0", out[0])
	assert.Equal(t, "Household #4", out[4])
}
