package geo_test

import (
	"testing"

	"agh/navigator/pkg/datastructure"
	"agh/navigator/pkg/geo"

	"github.com/stretchr/testify/assert"
)

func TestGeodesicDistance(t *testing.T) {
	// two points on the AGH campus, roughly 140m apart
	a := datastructure.NewCoordinate(50.0665, 19.9135)
	b := datastructure.NewCoordinate(50.0677, 19.9145)

	t.Run("plausible campus scale distance", func(t *testing.T) {
		dist := geo.GeodesicDistance(a, b)
		assert.Greater(t, dist, 100.0)
		assert.Less(t, dist, 200.0)
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.InDelta(t, geo.GeodesicDistance(a, b), geo.GeodesicDistance(b, a), 1e-9)
	})

	t.Run("zero for identical points", func(t *testing.T) {
		assert.InDelta(t, 0, geo.GeodesicDistance(a, a), 1e-9)
	})

	t.Run("agrees with haversine", func(t *testing.T) {
		s2Dist := geo.GeodesicDistance(a, b)
		havDist := geo.HaversineDistance(geo.NewLocation(a.Lat, a.Lon), geo.NewLocation(b.Lat, b.Lon))
		assert.InDelta(t, s2Dist, havDist, 0.5)
	})
}
