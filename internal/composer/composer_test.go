package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tambohub/pkg/models"
)

func TestOptionsProjectHouseholds(t *testing.T) {
	households := []models.Household{
		{
			ID:              1,
			HouseholdNumber: "7",
			Residents: []models.Resident{
				{Firstname: "Maria", Lastname: "Santos", Role: "Head"},
			},
		},
		{ID: 2, HouseholdNumber: "12"},
	}

	options := Options(households)
	require.Len(t, options, 2)
	assert.Equal(t, HouseholdOption{ID: 1, Number: "7", Head: "Maria Santos"}, options[0])
	assert.Equal(t, "No Assigned Head", options[1].Head)
}

func TestFilterOptions(t *testing.T) {
	options := []HouseholdOption{
		{ID: 1, Number: "7"},
		{ID: 2, Number: "17"},
		{ID: 3, Number: "23"},
	}

	assert.Len(t, FilterOptions(options, ""), 3)
	assert.Len(t, FilterOptions(options, "7"), 2)

	out := FilterOptions(options, "23")
	require.Len(t, out, 1)
	assert.Equal(t, int64(3), out[0].ID)
}

func TestSubmitGuardBlocksEmptyDraft(t *testing.T) {
	d := NewDraft()

	assert.False(t, d.CanSubmit())
	_, err := d.Build(42)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestToggleWithoutSubFormIsNotActive(t *testing.T) {
	d := NewDraft()

	d.Toggle(CategoryResidential)
	d.Toggle(CategoryCommercial)
	d.Toggle(CategoryInstitutional)
	assert.True(t, d.Enabled(CategoryResidential))
	assert.Equal(t, 0, d.ActiveCount())
	assert.False(t, d.CanSubmit())
}

func TestCommercialOnly(t *testing.T) {
	d := NewDraft()
	d.Toggle(CategoryCommercial)
	d.SetBusinessName("My Store")

	require.True(t, d.CanSubmit())
	req, err := d.Build(42)
	require.NoError(t, err)

	assert.Equal(t, "My Store", req.MappingName)
	assert.Equal(t, "Commercial", req.Type)
	assert.Nil(t, req.HouseholdID)
	assert.Equal(t, int64(42), req.FID)
}

func TestResidentialSelection(t *testing.T) {
	d := NewDraft()
	d.SelectHousehold(HouseholdOption{ID: 7, Number: "7", Head: "Maria Santos"})

	assert.True(t, d.Enabled(CategoryResidential))
	req, err := d.Build(1)
	require.NoError(t, err)

	assert.Equal(t, "Household #7", req.MappingName)
	assert.Equal(t, "Household", req.Type)
	require.NotNil(t, req.HouseholdID)
	assert.Equal(t, int64(7), *req.HouseholdID)
}

func TestAllThreeCategoriesBuildInFixedOrder(t *testing.T) {
	d := NewDraft()
	d.SelectHousehold(HouseholdOption{ID: 3, Number: "3"})
	d.Toggle(CategoryCommercial)
	d.SetBusinessName("Bakery")
	d.Toggle(CategoryInstitutional)
	require.NoError(t, d.SetInstitution("Religious", "Chapel"))

	assert.Equal(t, 3, d.ActiveCount())
	req, err := d.Build(9)
	require.NoError(t, err)

	assert.Equal(t, "Household #3,Bakery,Chapel", req.MappingName)
	assert.Equal(t, "Household,Commercial,Institutional(Religious)", req.Type)
}

func TestSetInstitutionRejectsUnknownType(t *testing.T) {
	d := NewDraft()
	d.Toggle(CategoryInstitutional)

	err := d.SetInstitution("Shopping Mall", "SM Annex")
	assert.ErrorIs(t, err, ErrUnknownInstitutionType)
	assert.Equal(t, 0, d.ActiveCount())
}

func TestToggleOffClearsSubForm(t *testing.T) {
	d := NewDraft()
	d.SelectHousehold(HouseholdOption{ID: 7, Number: "7"})
	d.Toggle(CategoryCommercial)
	d.SetBusinessName("Bakery")

	d.Toggle(CategoryCommercial) // off
	assert.Equal(t, 1, d.ActiveCount())

	req, err := d.Build(1)
	require.NoError(t, err)
	assert.Equal(t, "Household", req.Type)

	// toggling residential off drops the selection too
	d.Toggle(CategoryResidential)
	assert.False(t, d.CanSubmit())
}

func TestReset(t *testing.T) {
	d := NewDraft()
	d.SelectHousehold(HouseholdOption{ID: 7, Number: "7"})
	d.SetHouseholdQuery("7")
	d.Toggle(CategoryCommercial)
	d.SetBusinessName("Bakery")

	d.Reset()
	assert.False(t, d.CanSubmit())
	assert.False(t, d.Enabled(CategoryResidential))
	assert.False(t, d.Enabled(CategoryCommercial))
	assert.Equal(t, "", d.HouseholdQuery())
}
