package sync

import "time"

// MappingEvent tells connected viewers that the classification
// collection changed and their copy is stale.
type MappingEvent struct {
	Type        string    `json:"type"` // "mapping.create" or "mapping.delete"
	FID         int64     `json:"fid"`
	MappingName string    `json:"mapping_name,omitempty"`
	At          time.Time `json:"at"`
}
