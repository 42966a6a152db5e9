package graph

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"agh/navigator/pkg/server"
)

// PointRecord one entry in points.json. Coordinates = [lat, lon].
type PointRecord struct {
	Coordinates []float64 `json:"coordinates"`
	Adjacents   []string  `json:"adjacents"`
}

type PointsData map[string]PointRecord

func LoadPoints(path string) (PointsData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrBadParamInput, "cannot open points file %s", path)
	}
	defer f.Close()

	var points PointsData
	if err := json.NewDecoder(f).Decode(&points); err != nil {
		return nil, server.WrapErrorf(err, server.ErrBadParamInput, "points file %s is not valid json", path)
	}

	if err := points.Validate(); err != nil {
		return nil, err
	}
	return points, nil
}

// Validate fails fast on malformed entries and on adjacency targets without a
// coordinate entry, naming the offending point. Silent edge dropping would
// corrupt routes later.
func (p PointsData) Validate() error {
	for name, record := range p {
		if len(record.Coordinates) != 2 {
			return server.WrapErrorf(nil, server.ErrBadParamInput,
				"point %q must have exactly [lat, lon] coordinates, got %d values", name, len(record.Coordinates))
		}
		for _, adj := range record.Adjacents {
			if _, ok := p[adj]; !ok {
				return server.WrapErrorf(nil, server.ErrBadParamInput,
					"adjacent point %q of %q has no coordinate entry", adj, name)
			}
		}
	}
	return nil
}

// BuildingNames filters out the helper path intersection points (names with
// the "p" prefix) and sorts the rest for a stable selection list.
func (p PointsData) BuildingNames() []string {
	buildings := make([]string, 0, len(p))
	for name := range p {
		if strings.HasPrefix(name, "p") {
			continue
		}
		buildings = append(buildings, name)
	}
	sort.Strings(buildings)
	return buildings
}
