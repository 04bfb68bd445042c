package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []Assignment{
		{Label: "Household #12", Tag: TagHousehold},
		{Label: "Sari-Sari Store", Tag: TagCommercial},
		{Label: "Barangay Hall", Tag: InstitutionalTag("Government / Civic Building")},
	}

	name, typ, err := Encode(in)
	require.NoError(t, err)
	assert.Equal(t, "Household #12,Sari-Sari Store,Barangay Hall", name)
	assert.Equal(t, "Household,Commercial,Institutional(Government / Civic Building)", typ)

	out, err := Decode(name, typ)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeRejectsEmptyAndCommaSegments(t *testing.T) {
	_, _, err := Encode(nil)
	assert.Error(t, err)

	_, _, err = Encode([]Assignment{{Label: "", Tag: TagCommercial}})
	assert.Error(t, err)

	_, _, err = Encode([]Assignment{{Label: "Shop", Tag: ""}})
	assert.Error(t, err)

	_, _, err = Encode([]Assignment{{Label: "A, B Trading", Tag: TagCommercial}})
	assert.Error(t, err)
}

func TestDecodeRejectsMismatchedColumns(t *testing.T) {
	_, err := Decode("A,B", "Commercial")
	assert.Error(t, err)

	_, err = Decode("A,,C", "Commercial,Household,Commercial")
	assert.Error(t, err)
}

func TestDecodeTrimsSegments(t *testing.T) {
	out, err := Decode(" Shop , Household #3", "Commercial , Household")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, Assignment{Label: "Shop", Tag: "Commercial"}, out[0])
	assert.Equal(t, Assignment{Label: "Household #3", Tag: "Household"}, out[1])
}

func TestInstitutionalTags(t *testing.T) {
	tag := InstitutionalTag("Religious")
	assert.Equal(t, "Institutional(Religious)", tag)
	assert.True(t, IsInstitutionalTag(tag))
	assert.Equal(t, "Religious", InstitutionType(tag))

	assert.False(t, IsInstitutionalTag("Commercial"))
	assert.Equal(t, "", InstitutionType("Commercial"))

	assert.True(t, ValidInstitutionType("Healthcare Buildings"))
	assert.False(t, ValidInstitutionType("Shopping Mall"))
}

func TestHasHouseholdNumber(t *testing.T) {
	assert.True(t, HasHouseholdNumber("Household #7"))
	assert.True(t, HasHouseholdNumber("Aling Nena Store,Household # 12"))
	assert.False(t, HasHouseholdNumber("Household"))
	assert.False(t, HasHouseholdNumber("Sari-Sari Store"))
}

func TestValidate(t *testing.T) {
	id := int64(7)

	t.Run("household with id", func(t *testing.T) {
		err := Validate("Household #7", TagHousehold, &id)
		assert.NoError(t, err)
	})

	t.Run("household without id", func(t *testing.T) {
		err := Validate("Household #7", TagHousehold, nil)
		assert.Error(t, err)
	})

	t.Run("id without household", func(t *testing.T) {
		err := Validate("Shop", TagCommercial, &id)
		assert.Error(t, err)
	})

	t.Run("two household segments", func(t *testing.T) {
		err := Validate("Household #7,Household #8", "Household,Household", &id)
		assert.Error(t, err)
	})

	t.Run("unknown tag", func(t *testing.T) {
		err := Validate("Shop", "Retail", nil)
		assert.Error(t, err)
	})

	t.Run("unknown institution type", func(t *testing.T) {
		err := Validate("Mall", "Institutional(Shopping Mall)", nil)
		assert.Error(t, err)
	})

	t.Run("full composite", func(t *testing.T) {
		err := Validate(
			"Household #7,Aling Nena Store",
			"Household,Commercial",
			&id,
		)
		assert.NoError(t, err)
	})
}
