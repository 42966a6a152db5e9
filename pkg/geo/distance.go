package geo

import (
	"math"

	"agh/navigator/pkg/datastructure"

	"github.com/golang/geo/s2"
)

const earthRadiusM = 6371000.0

// DistanceFunc returns the distance in meters between two coordinates. Must be
// deterministic, non-negative and symmetric.
type DistanceFunc func(from, to datastructure.Coordinate) float64

// GeodesicDistance great circle distance in meters on the s2 sphere.
func GeodesicDistance(from, to datastructure.Coordinate) float64 {
	fromLatLng := s2.LatLngFromDegrees(from.Lat, from.Lon)
	toLatLng := s2.LatLngFromDegrees(to.Lat, to.Lon)
	return fromLatLng.Distance(toLatLng).Radians() * earthRadiusM
}

type Location struct {
	Latitude  float64
	Longitude float64
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func NewLocation(latDegree float64, lonDegree float64) Location {
	return Location{
		Latitude:  degreeToRadians(latDegree),
		Longitude: degreeToRadians(lonDegree),
	}
}

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func havFormula(locationOne Location, locationTwo Location) float64 {
	latitudeDiff := locationOne.Latitude - locationTwo.Latitude
	longitudeDiff := locationOne.Longitude - locationTwo.Longitude

	havLatitude := havFunction(latitudeDiff)
	havLongitude := havFunction(longitudeDiff)

	return havLatitude + math.Cos(locationOne.Latitude)*math.Cos(locationTwo.Latitude)*havLongitude
}

func archaversine(havAngle float64) float64 {
	return 2.0 * math.Asin(math.Sqrt(havAngle))
}

// HaversineDistance distance in meters between two locations. Cheaper than the
// s2 projection, used for snapping candidate ranking.
func HaversineDistance(locationOne Location, locationTwo Location) float64 {
	havCentralAngle := havFormula(locationOne, locationTwo)
	centralAngleRad := archaversine(havCentralAngle)
	return earthRadiusM * centralAngleRad
}
