package mapview

import (
	"strings"

	"tambohub/internal/geodata"
	"tambohub/internal/mapping"
	"tambohub/pkg/models"
)

type CategoryFlags struct {
	Residential   bool `json:"residential"`
	Commercial    bool `json:"commercial"`
	Institutional bool `json:"institutional"`
}

// Joined is one building combined with its (possibly absent) mapping.
// It is recomputed from the two stores on every view pass and never
// stored.
type Joined struct {
	Feature geodata.Feature `json:"feature"`
	Mapping *models.Mapping `json:"mapping,omitempty"`
	Label   string          `json:"label,omitempty"`
	Flags   CategoryFlags   `json:"flags"`
	Token   StyleToken      `json:"token"`
	Style   Style           `json:"style"`
}

// Resolve joins one feature with the mapping collection. The first
// mapping carrying the feature's id wins, so duplicate rows (which the
// store's unique fid constraint should prevent) resolve
// deterministically.
func Resolve(f geodata.Feature, mappings []models.Mapping) Joined {
	j := Joined{Feature: f, Token: TokenUnassigned}

	fid := int64(f.FID())
	for i := range mappings {
		if mappings[i].FID == fid {
			j.Mapping = &mappings[i]
			break
		}
	}

	if j.Mapping != nil {
		j.Label = j.Mapping.MappingName
		j.Flags = flagsFor(*j.Mapping)
		j.Token = resolveToken(j.Flags, j.Label)
	}

	j.Style = BaseStyle(j.Token)
	return j
}

func ResolveAll(features []geodata.Feature, mappings []models.Mapping) []Joined {
	out := make([]Joined, 0, len(features))
	for _, f := range features {
		out = append(out, Resolve(f, mappings))
	}
	return out
}

// flagsFor derives the category flags from the decoded assignment
// tags. Rows whose composites no longer decode (legacy data) fall back
// to the old tolerant substring match so they keep rendering.
func flagsFor(m models.Mapping) CategoryFlags {
	assignments, err := mapping.Decode(m.MappingName, m.Type)
	if err != nil {
		typ := strings.ToLower(m.Type)
		return CategoryFlags{
			Residential:   strings.Contains(typ, "household"),
			Commercial:    strings.Contains(typ, "commercial"),
			Institutional: strings.Contains(typ, "institutional"),
		}
	}

	var flags CategoryFlags
	for _, a := range assignments {
		switch {
		case a.Tag == mapping.TagHousehold:
			flags.Residential = true
		case a.Tag == mapping.TagCommercial:
			flags.Commercial = true
		case mapping.IsInstitutionalTag(a.Tag):
			flags.Institutional = true
		}
	}
	return flags
}

// resolveToken applies the style precedence: a commercial assignment
// paired with a "Household #<n>" label renders as the dual style,
// then residential, commercial, institutional, unassigned.
func resolveToken(flags CategoryFlags, label string) StyleToken {
	hasHousehold := mapping.HasHouseholdNumber(label)
	switch {
	case flags.Commercial && hasHousehold:
		return TokenDual
	case hasHousehold:
		return TokenResidential
	case flags.Commercial:
		return TokenCommercial
	case flags.Institutional:
		return TokenInstitutional
	default:
		return TokenUnassigned
	}
}

// Tooltip renders the hover text: the household line below, any other
// assignments above it, or the unassigned placeholder.
func (j Joined) Tooltip() []string {
	if j.Label == "" {
		return []string{"Not Assigned yet."}
	}
	parts := strings.Split(j.Label, ",")
	if len(parts) < 2 {
		return []string{strings.TrimSpace(j.Label)}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return append(parts[1:], parts[0])
}
