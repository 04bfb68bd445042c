package models

import "strings"

// Household is a directory entry. The map engine reads households but
// never mutates them.
type Household struct {
	ID              int64      `json:"id"`
	HouseholdNumber string     `json:"household_number"`
	Type            string     `json:"type"`
	Zone            string     `json:"zone"`
	Status          string     `json:"status"`
	DateOfResidency string     `json:"date_of_residency"`
	Residents       []Resident `json:"residents"`
}

type Resident struct {
	ID          int64   `json:"id"`
	HouseholdID int64   `json:"household_id"`
	Firstname   string  `json:"firstname"`
	Lastname    string  `json:"lastname"`
	Role        string  `json:"role"`
	Income      float64 `json:"income"`
}

// Head returns the full name of the resident with role "Head",
// or "No Assigned Head" when the household has none.
func (h Household) Head() string {
	for _, r := range h.Residents {
		if strings.EqualFold(strings.TrimSpace(r.Role), "head") {
			return r.Firstname + " " + r.Lastname
		}
	}
	return "No Assigned Head"
}
