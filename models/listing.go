package models

import "time"

// Listing is one scraped search-result entry. The extractor creates it
// with empty geo fields; the resolver derives a new value via WithGeo
// once enrichment succeeds. Listings are passed by value and never
// mutated in place.
type Listing struct {
	ScrapedAt    time.Time
	Source       string // host the search page came from
	Title        string
	PriceText    string
	LocationText string
	SinceText    string
	URL          string // unique key across the run

	// Set by WithGeo only.
	Municipality string
	Lat          float64
	Lon          float64
	DistanceKm   float64
	Located      bool
}

// Columns is the fixed snapshot CSV column order.
var Columns = []string{
	"scraped_at", "source", "title", "price_text", "location_text", "since_text", "url",
	"municipality", "lat", "lon", "distance_km",
}

// WithGeo returns a copy of l carrying the resolved coordinate,
// rounded distance and municipality. l itself is not modified.
func (l Listing) WithGeo(lat, lon, distanceKm float64, municipality string) Listing {
	out := l
	out.Lat = lat
	out.Lon = lon
	out.DistanceKm = distanceKm
	out.Municipality = municipality
	out.Located = true
	return out
}
