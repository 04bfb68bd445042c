package mapview

import (
	"strings"

	"tambohub/pkg/models"
)

// Category filter values accepted by the map view.
const (
	FilterAll         = "All"
	FilterHousehold   = "Household"
	FilterCommercial  = "Commercial"
	FilterInstitution = "Institution"
)

const maxSuggestions = 5

// Filter narrows a joined feature set by free-text label match and
// category, combined with AND. It is a pure view transform over the
// joined slice; the underlying stores are untouched.
func Filter(joined []Joined, query, category string) []Joined {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]Joined, 0, len(joined))
	for _, j := range joined {
		if query != "" && !strings.Contains(strings.ToLower(j.Label), query) {
			continue
		}
		if !matchesCategory(j, category) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func matchesCategory(j Joined, category string) bool {
	var fragment string
	switch category {
	case "", FilterAll:
		return true
	case FilterHousehold:
		fragment = "household"
	case FilterCommercial:
		fragment = "commercial"
	case FilterInstitution:
		fragment = "institutional"
	default:
		return true
	}

	if j.Mapping == nil {
		return false
	}
	return strings.Contains(strings.ToLower(j.Mapping.Type), fragment)
}

// Suggest lists up to five mapping names matching the query, for the
// search autocomplete. An empty query suggests nothing.
func Suggest(mappings []models.Mapping, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	out := make([]string, 0, maxSuggestions)
	for _, m := range mappings {
		if strings.Contains(strings.ToLower(m.MappingName), query) {
			out = append(out, m.MappingName)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}
