package geodata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// FID identifies one feature of the static dataset. It comes from the
// "id" property assigned when the layers were digitized and never
// changes at runtime.
type FID int64

// Feature is one polygon (building, road segment, zone or border
// segment). The geometry is carried as raw GeoJSON; this package never
// interprets coordinates.
type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// FID returns the feature id, or -1 when the feature has none.
func (f Feature) FID() FID {
	v, ok := f.Properties["id"]
	if !ok {
		return -1
	}
	switch n := v.(type) {
	case float64:
		return FID(n)
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return -1
		}
		return FID(id)
	default:
		return -1
	}
}

func (f Feature) Name() string {
	if s, ok := f.Properties["name"].(string); ok {
		return s
	}
	return ""
}

type Collection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Store holds the static map layers. Loaded once at startup and never
// mutated afterwards.
type Store struct {
	Border    Collection
	Zones     Collection
	Roads     Collection
	Buildings Collection

	buildingIdx map[FID]int
}

// Load reads the layer files from dir: border.json, zones.json and
// buildings.json, plus every roads*.json merged into one road layer
// (the dataset ships one file per named road).
func Load(dir string) (*Store, error) {
	s := &Store{}

	for _, l := range []struct {
		file string
		dst  *Collection
	}{
		{"border.json", &s.Border},
		{"zones.json", &s.Zones},
		{"buildings.json", &s.Buildings},
	} {
		if err := readCollection(filepath.Join(dir, l.file), l.dst); err != nil {
			return nil, err
		}
	}

	roadFiles, err := filepath.Glob(filepath.Join(dir, "roads*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob roads: %w", err)
	}
	sort.Strings(roadFiles)
	s.Roads.Type = "FeatureCollection"
	for _, path := range roadFiles {
		var c Collection
		if err := readCollection(path, &c); err != nil {
			return nil, err
		}
		s.Roads.Features = append(s.Roads.Features, c.Features...)
	}

	s.buildingIdx = make(map[FID]int, len(s.Buildings.Features))
	for i, f := range s.Buildings.Features {
		if fid := f.FID(); fid >= 0 {
			// first occurrence wins when the dataset repeats an id
			if _, seen := s.buildingIdx[fid]; !seen {
				s.buildingIdx[fid] = i
			}
		}
	}

	return s, nil
}

// Building looks up a building feature by FID.
func (s *Store) Building(fid FID) (Feature, bool) {
	i, ok := s.buildingIdx[fid]
	if !ok {
		return Feature{}, false
	}
	return s.Buildings.Features[i], true
}

func readCollection(path string, dst *Collection) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
