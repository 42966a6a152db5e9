package datastructure

import (
	"github.com/twpayne/go-polyline"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// RenderPath encodes a coordinate sequence as a google encoded polyline.
func RenderPath(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
