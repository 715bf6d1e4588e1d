// Package geo provides great-circle distance math for the proximity search.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two
// coordinates, computed with the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// WithinRadius reports whether the target coordinate lies within radiusKm of
// the origin. The boundary is inclusive.
func WithinRadius(lat, lon, targetLat, targetLon, radiusKm float64) bool {
	return Distance(lat, lon, targetLat, targetLon) <= radiusKm
}
