package services

import (
	"context"
	"math"

	"bungalows-map/geo"
	"bungalows-map/models"
	"bungalows-map/utils"
)

// Outcome is the terminal state of resolving one listing.
type Outcome int

const (
	Enriched Outcome = iota
	DroppedNoGeo
	DroppedOutOfRadius
)

// Resolver enriches listings with coordinates, distance to the center
// and municipality. Both caches are authoritative: a present key is
// never re-queried.
type Resolver struct {
	logger   *utils.Logger
	geocoder geo.Geocoder
	geoCache *geo.GeoCache
	revCache *geo.ReverseCache
	center   geo.Point
	radiusKm float64
}

// NewResolver creates a Resolver around the given caches and center.
func NewResolver(logger *utils.Logger, geocoder geo.Geocoder, geoCache *geo.GeoCache, revCache *geo.ReverseCache, center geo.Point, radiusKm float64) *Resolver {
	return &Resolver{
		logger:   logger,
		geocoder: geocoder,
		geoCache: geoCache,
		revCache: revCache,
		center:   center,
		radiusKm: radiusKm,
	}
}

// ResolveCenter geocodes the configured center name once per run,
// falling back to the hardcoded coordinate when the lookup fails.
func ResolveCenter(ctx context.Context, logger *utils.Logger, geocoder geo.Geocoder, name string, fallback geo.Point) geo.Point {
	pt, ok, err := geocoder.Geocode(ctx, name)
	if err != nil {
		logger.Warn("[geo] center lookup %q failed: %v — using fallback", name, err)
		return fallback
	}
	if !ok {
		logger.Warn("[geo] center %q not found — using fallback", name)
		return fallback
	}
	return pt
}

// Resolve runs the enrichment state machine for one listing and
// returns the enriched copy together with the terminal outcome. The
// input listing is returned unchanged for dropped outcomes.
func (r *Resolver) Resolve(ctx context.Context, l models.Listing) (models.Listing, Outcome) {
	pt, ok := r.lookupCoords(ctx, l)
	if !ok {
		r.logger.Warn("[geo] no variant resolved: %s | %s | %s", l.Source, l.Title, l.URL)
		return l, DroppedNoGeo
	}

	distKm := geo.DistanceKm(r.center, pt)
	if distKm > r.radiusKm {
		return l, DroppedOutOfRadius
	}

	municipality := r.lookupMunicipality(ctx, pt)

	return l.WithGeo(pt.Lat, pt.Lon, math.Round(distKm*10)/10, municipality), Enriched
}

// lookupCoords finds a coordinate for the listing: cache under the
// URL, then cache under each address variant, then live geocoding of
// each variant in order. The first hit wins.
func (r *Resolver) lookupCoords(ctx context.Context, l models.Listing) (geo.Point, bool) {
	if pt, ok := r.geoCache.Get(l.URL); ok {
		return pt, true
	}

	variants := GuessAddressVariants(l)
	for _, v := range variants {
		if pt, ok := r.geoCache.Get(v); ok {
			return pt, true
		}
	}

	for _, v := range variants {
		pt, ok, err := r.geocoder.Geocode(ctx, v)
		if err != nil {
			r.logger.Warn("[geo] geocode %q: %v", v, err)
			continue
		}
		if !ok {
			continue
		}
		// Cache under both the listing URL and the variant that hit,
		// so future runs short-circuit on either key.
		if err := r.geoCache.Put(pt, l.URL, v); err != nil {
			r.logger.Warn("[geo] cache save: %v", err)
		}
		return pt, true
	}

	return geo.Point{}, false
}

// lookupMunicipality resolves the coordinate to a municipality name.
// Failure is non-fatal: the listing stays enriched with an empty
// municipality. Transport errors are not cached, so the next run
// retries them.
func (r *Resolver) lookupMunicipality(ctx context.Context, pt geo.Point) string {
	key := geo.RevKey(pt)
	if m, ok := r.revCache.Get(key); ok {
		return m
	}

	addr, ok, err := r.geocoder.Reverse(ctx, pt)
	if err != nil {
		r.logger.Warn("[geo] reverse %s: %v", key, err)
		return ""
	}

	// The call succeeded, so the answer is cacheable even when empty.
	// Transport errors are not cached and retry on the next run.
	municipality := ""
	if ok {
		municipality = addr.MunicipalityName()
	}
	if err := r.revCache.Put(key, municipality); err != nil {
		r.logger.Warn("[geo] reverse cache save: %v", err)
	}
	return municipality
}
