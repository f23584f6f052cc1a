package geo

import (
	"context"
	"fmt"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geocoder resolves free-form address queries to coordinates and
// coordinates back to an address breakdown. The boolean result is
// false when the service returned no match (not an error).
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Point, bool, error)
	Reverse(ctx context.Context, pt Point) (Address, bool, error)
}

// Address is the breakdown returned by a reverse lookup. Dutch
// municipalities come back under different keys depending on the
// settlement type.
type Address struct {
	Municipality string `json:"municipality"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	County       string `json:"county"`
}

// MunicipalityName returns the first populated municipality-level
// field, in decreasing order of specificity.
func (a Address) MunicipalityName() string {
	for _, v := range []string{a.Municipality, a.City, a.Town, a.Village, a.County} {
		if v != "" {
			return v
		}
	}
	return ""
}

// RevKey quantizes a coordinate to the reverse-cache key format.
func RevKey(p Point) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}
