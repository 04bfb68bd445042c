package mapping

import (
	"fmt"
	"regexp"
	"strings"
)

// Category tags stored in the composite Type column.
const (
	TagHousehold  = "Household"
	TagCommercial = "Commercial"
)

const institutionalPrefix = "Institutional("

// InstitutionTypes is the fixed set accepted for institutional
// assignments.
var InstitutionTypes = []string{
	"Government / Civic Building",
	"Religious",
	"Educational Buildings",
	"Healthcare Buildings",
	"Emergency / Safety Buildings",
}

// Assignment is one category sub-assignment of a mapping: a display
// label paired with its category tag. A mapping stores its assignments
// as two comma-joined columns (MappingName, Type); keeping them as one
// list of pairs makes a length mismatch impossible to construct.
type Assignment struct {
	Label string
	Tag   string
}

func InstitutionalTag(instType string) string {
	return institutionalPrefix + instType + ")"
}

func IsInstitutionalTag(tag string) bool {
	return strings.HasPrefix(tag, institutionalPrefix) && strings.HasSuffix(tag, ")")
}

// InstitutionType extracts the institution type from an
// "Institutional(...)" tag, or returns "".
func InstitutionType(tag string) string {
	if !IsInstitutionalTag(tag) {
		return ""
	}
	return tag[len(institutionalPrefix) : len(tag)-1]
}

func ValidInstitutionType(instType string) bool {
	for _, t := range InstitutionTypes {
		if t == instType {
			return true
		}
	}
	return false
}

var householdNumberRe = regexp.MustCompile(`Household #\s*\d+`)

// HasHouseholdNumber reports whether a composite name contains a
// "Household #<n>" label. The style resolver keys the residential and
// dual renderings off this pattern.
func HasHouseholdNumber(name string) bool {
	return householdNumberRe.MatchString(name)
}

// HouseholdLabel builds the display label for a residential assignment.
func HouseholdLabel(householdNumber string) string {
	return "Household #" + householdNumber
}

// Encode joins assignments into the stored MappingName and Type
// columns. Empty labels or tags are rejected so the composites never
// carry empty segments.
func Encode(assignments []Assignment) (name, typ string, err error) {
	if len(assignments) == 0 {
		return "", "", fmt.Errorf("encode: no assignments")
	}
	names := make([]string, 0, len(assignments))
	tags := make([]string, 0, len(assignments))
	for i, a := range assignments {
		label := strings.TrimSpace(a.Label)
		tag := strings.TrimSpace(a.Tag)
		if label == "" {
			return "", "", fmt.Errorf("encode: empty label at %d", i)
		}
		if tag == "" {
			return "", "", fmt.Errorf("encode: empty tag at %d", i)
		}
		if strings.Contains(label, ",") || strings.Contains(tag, ",") {
			return "", "", fmt.Errorf("encode: comma in segment at %d", i)
		}
		names = append(names, label)
		tags = append(tags, tag)
	}
	return strings.Join(names, ","), strings.Join(tags, ","), nil
}

// Decode splits the stored composites back into assignment pairs. The
// two columns must have the same number of segments and no segment may
// be empty.
func Decode(name, typ string) ([]Assignment, error) {
	names := strings.Split(name, ",")
	tags := strings.Split(typ, ",")
	if len(names) != len(tags) {
		return nil, fmt.Errorf("decode: %d names vs %d tags", len(names), len(tags))
	}
	out := make([]Assignment, 0, len(names))
	for i := range names {
		label := strings.TrimSpace(names[i])
		tag := strings.TrimSpace(tags[i])
		if label == "" || tag == "" {
			return nil, fmt.Errorf("decode: empty segment at %d", i)
		}
		out = append(out, Assignment{Label: label, Tag: tag})
	}
	return out, nil
}

// Validate checks a mapping's composites and household link before it
// is stored: at least one assignment, known tags, and a household id
// exactly when a Household assignment is present.
func Validate(name, typ string, householdID *int64) error {
	assignments, err := Decode(name, typ)
	if err != nil {
		return err
	}

	households := 0
	for _, a := range assignments {
		switch {
		case a.Tag == TagHousehold:
			households++
			if !HasHouseholdNumber(a.Label) {
				return fmt.Errorf("household assignment %q has no household number", a.Label)
			}
		case a.Tag == TagCommercial:
		case IsInstitutionalTag(a.Tag):
			if !ValidInstitutionType(InstitutionType(a.Tag)) {
				return fmt.Errorf("unknown institution type %q", InstitutionType(a.Tag))
			}
		default:
			return fmt.Errorf("unknown tag %q", a.Tag)
		}
	}

	if households > 1 {
		return fmt.Errorf("more than one household assignment")
	}
	if householdID != nil && households == 0 {
		return fmt.Errorf("household id set without household assignment")
	}
	if householdID == nil && households > 0 {
		return fmt.Errorf("household assignment without household id")
	}
	return nil
}
