package composer

import (
	"errors"
	"fmt"
	"strings"

	"tambohub/internal/mapping"
	"tambohub/pkg/models"
)

type Category string

const (
	CategoryResidential   Category = "residential"
	CategoryCommercial    Category = "commercial"
	CategoryInstitutional Category = "institutional"
)

var (
	// ErrNoSelection means submit was attempted with zero active
	// sub-assignments; the guard fires before any network call.
	ErrNoSelection = errors.New("no building types selected")

	ErrUnknownInstitutionType = errors.New("unknown institution type")
)

// HouseholdOption is one selectable entry of the residential sub-form.
type HouseholdOption struct {
	ID     int64
	Number string
	Head   string
}

// Options projects the household directory into selectable entries.
func Options(households []models.Household) []HouseholdOption {
	out := make([]HouseholdOption, 0, len(households))
	for _, h := range households {
		out = append(out, HouseholdOption{
			ID:     h.ID,
			Number: h.HouseholdNumber,
			Head:   h.Head(),
		})
	}
	return out
}

// FilterOptions narrows the household list by a case-insensitive
// substring match on the household number.
func FilterOptions(options []HouseholdOption, query string) []HouseholdOption {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return options
	}
	out := make([]HouseholdOption, 0, len(options))
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Number), query) {
			out = append(out, o)
		}
	}
	return out
}

// CreateRequest is the payload the composer submits; one request
// creates the whole mapping atomically.
type CreateRequest struct {
	MappingName string `json:"MappingName"`
	Type        string `json:"Type"`
	HouseholdID *int64 `json:"HouseholdID"`
	FID         int64  `json:"FID"`
}

// Draft accumulates the composer's form state for one target feature.
// The three categories toggle independently; a category only counts as
// active once its sub-form is complete.
type Draft struct {
	residentialOn   bool
	commercialOn    bool
	institutionalOn bool

	householdQuery string
	household      *HouseholdOption

	businessName string

	institutionType string
	institutionName string
}

func NewDraft() *Draft {
	return &Draft{}
}

// Toggle flips a category. Turning a category off discards its
// sub-form values so nothing stale leaks into a later submission.
func (d *Draft) Toggle(c Category) {
	switch c {
	case CategoryResidential:
		d.residentialOn = !d.residentialOn
		if !d.residentialOn {
			d.household = nil
			d.householdQuery = ""
		}
	case CategoryCommercial:
		d.commercialOn = !d.commercialOn
		if !d.commercialOn {
			d.businessName = ""
		}
	case CategoryInstitutional:
		d.institutionalOn = !d.institutionalOn
		if !d.institutionalOn {
			d.institutionType = ""
			d.institutionName = ""
		}
	}
}

func (d *Draft) Enabled(c Category) bool {
	switch c {
	case CategoryResidential:
		return d.residentialOn
	case CategoryCommercial:
		return d.commercialOn
	case CategoryInstitutional:
		return d.institutionalOn
	}
	return false
}

func (d *Draft) SetHouseholdQuery(q string) {
	d.householdQuery = q
}

func (d *Draft) HouseholdQuery() string {
	return d.householdQuery
}

// SelectHousehold captures the chosen household's id and display
// number, enabling the residential category.
func (d *Draft) SelectHousehold(o HouseholdOption) {
	d.residentialOn = true
	d.household = &o
}

func (d *Draft) SetBusinessName(name string) {
	d.businessName = name
}

// SetInstitution records the institutional sub-form; the type must be
// one of the enumerated institution types.
func (d *Draft) SetInstitution(instType, name string) error {
	if !mapping.ValidInstitutionType(instType) {
		return fmt.Errorf("%w: %q", ErrUnknownInstitutionType, instType)
	}
	d.institutionType = instType
	d.institutionName = name
	return nil
}

func (d *Draft) residentialActive() bool {
	return d.residentialOn && d.household != nil
}

func (d *Draft) commercialActive() bool {
	return d.commercialOn && strings.TrimSpace(d.businessName) != ""
}

func (d *Draft) institutionalActive() bool {
	return d.institutionalOn && d.institutionType != "" && strings.TrimSpace(d.institutionName) != ""
}

// ActiveCount reports how many sub-assignments are complete.
func (d *Draft) ActiveCount() int {
	n := 0
	if d.residentialActive() {
		n++
	}
	if d.commercialActive() {
		n++
	}
	if d.institutionalActive() {
		n++
	}
	return n
}

func (d *Draft) CanSubmit() bool {
	return d.ActiveCount() > 0
}

// Build assembles the create request for the target feature, emitting
// assignments in the fixed residential, commercial, institutional
// order and skipping inactive categories.
func (d *Draft) Build(fid int64) (CreateRequest, error) {
	if !d.CanSubmit() {
		return CreateRequest{}, ErrNoSelection
	}

	var (
		assignments []mapping.Assignment
		householdID *int64
	)

	if d.residentialActive() {
		assignments = append(assignments, mapping.Assignment{
			Label: mapping.HouseholdLabel(d.household.Number),
			Tag:   mapping.TagHousehold,
		})
		id := d.household.ID
		householdID = &id
	}
	if d.commercialActive() {
		assignments = append(assignments, mapping.Assignment{
			Label: strings.TrimSpace(d.businessName),
			Tag:   mapping.TagCommercial,
		})
	}
	if d.institutionalActive() {
		assignments = append(assignments, mapping.Assignment{
			Label: strings.TrimSpace(d.institutionName),
			Tag:   mapping.InstitutionalTag(d.institutionType),
		})
	}

	name, typ, err := mapping.Encode(assignments)
	if err != nil {
		return CreateRequest{}, err
	}

	return CreateRequest{
		MappingName: name,
		Type:        typ,
		HouseholdID: householdID,
		FID:         fid,
	}, nil
}

// Reset clears all form state; called whenever the composer closes,
// cancelled or not.
func (d *Draft) Reset() {
	*d = Draft{}
}
