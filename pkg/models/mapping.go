package models

import "time"

// Mapping assigns one or more use categories to a single map feature.
// MappingName and Type are comma-joined composites kept positionally in
// sync; see internal/mapping for the codec.
//
// JSON keys match the wire format the map frontend already speaks.
type Mapping struct {
	ID          int64             `json:"ID"`
	FID         int64             `json:"FID"`
	MappingName string            `json:"MappingName"`
	Type        string            `json:"Type"`
	HouseholdID *int64            `json:"HouseholdID"`
	Household   *MappingHousehold `json:"Household,omitempty"`
	CreatedAt   time.Time         `json:"CreatedAt,omitempty"`
}

// MappingHousehold is the household summary embedded in mapping list
// responses when the mapping is linked to a household.
type MappingHousehold struct {
	HouseholdNumber string          `json:"HouseholdNumber"`
	HouseholdType   string          `json:"HouseholdType"`
	Zone            string          `json:"Zone"`
	Status          string          `json:"Status"`
	DateOfResidency string          `json:"DateOfResidency"`
	Members         []MappingMember `json:"Members,omitempty"`
}

type MappingMember struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}
