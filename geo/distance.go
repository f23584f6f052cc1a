package geo

import "github.com/golang/geo/s2"

// earthRadiusKm converts the unit-sphere angle to kilometers.
const earthRadiusKm = 6371.01

// DistanceKm returns the great-circle distance between two points in
// kilometers.
func DistanceKm(a, b Point) float64 {
	al := s2.LatLngFromDegrees(a.Lat, a.Lon)
	bl := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return float64(al.Distance(bl)) * earthRadiusKm
}
