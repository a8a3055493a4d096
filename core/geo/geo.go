// Package geo provides great-circle distance and proximity scoring used by
// the allocation engine. All functions are pure.
package geo

import "math"

// earthRadiusKM is the mean Earth radius used for haversine distances.
const earthRadiusKM = 6371.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceKM returns the haversine great-circle distance between two
// points in kilometres. The function is symmetric and returns zero for
// identical points.
func DistanceKM(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ProximityScore maps a distance in kilometres to a 0-100 score with
// linear decay of two points per kilometre, saturating at zero beyond
// 50 km.
func ProximityScore(distanceKM float64) float64 {
	return math.Max(0, 100-2*distanceKM)
}
