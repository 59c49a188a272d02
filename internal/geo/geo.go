// Package geo holds the great-circle math and the proximity colour scale used
// to score guesses. Everything here is pure and safe for concurrent use.
package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used by DistanceKm.
	EarthRadiusKm = 6371.0
	// MaxDistanceKm is the distance at which proximity reaches zero.
	MaxDistanceKm = 20000.0
)

// Point is a WGS 84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// DistanceKm returns the haversine great-circle distance between a and b.
func DistanceKm(a, b Point) float64 {
	if a == b {
		return 0
	}
	sinLat := math.Sin(toRad(b.Lat-a.Lat) / 2)
	sinLng := math.Sin(toRad(b.Lng-a.Lng) / 2)
	h := sinLat*sinLat + math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*sinLng*sinLng

	// Rounding can push h just past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// BearingDeg returns the initial compass bearing from a to b in [0, 360),
// measured clockwise from north.
func BearingDeg(a, b Point) float64 {
	if a == b {
		return 0
	}
	lat1, lat2 := toRad(a.Lat), toRad(b.Lat)
	dLng := toRad(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	deg := math.Mod(toDeg(math.Atan2(y, x))+360, 360)
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// DistanceToProximity maps a distance onto [0, 1] where 1 is an exact hit.
// Anything at or beyond MaxDistanceKm is 0.
func DistanceToProximity(km float64) float64 {
	return math.Max(0, 1-km/MaxDistanceKm)
}
