package main

import (
	"context"
	"time"

	"bungalows-map/config"
	"bungalows-map/geo"
	"bungalows-map/models"
	"bungalows-map/render"
	"bungalows-map/scraper"
	"bungalows-map/services"
	"bungalows-map/storage"
	"bungalows-map/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	ctx := context.Background()

	logger.Info("=== Bungalow Map Snapshot starting ===")
	logger.Info("Config — sites: %d | fetcher: %s | radius: %.0f km | center: %s",
		len(cfg.Sites), cfg.Fetcher, cfg.RadiusKm, cfg.CenterName)

	store := storage.NewSnapshotStore(cfg.SnapshotCSVPath, cfg.NewCSVPath)
	prevURLs, err := store.PreviousURLs()
	if err != nil {
		logger.Warn("Could not read previous snapshot: %v — every listing counts as new", err)
		prevURLs = make(map[string]struct{})
	}

	geoCache, err := geo.LoadGeoCache(cfg.GeoCachePath)
	if err != nil {
		logger.Warn("Geo cache unreadable: %v — starting empty", err)
		geoCache = geo.NewGeoCache(cfg.GeoCachePath)
	}
	revCache, err := geo.LoadReverseCache(cfg.ReverseCachePath)
	if err != nil {
		logger.Warn("Reverse cache unreadable: %v — starting empty", err)
		revCache = geo.NewReverseCache(cfg.ReverseCachePath)
	}
	logger.Info("Caches loaded — geocode: %d entries", geoCache.Len())

	var fetcher scraper.Fetcher
	if cfg.Fetcher == "chrome" {
		fetcher = scraper.NewChromeFetcher(cfg.UserAgent, cfg.ChromeBin, cfg.RequestTimeout)
		logger.Info("Using headless Chrome fetcher")
	} else {
		fetcher = scraper.NewHTTPFetcher(cfg.UserAgent, cfg.RequestTimeout, cfg.InsecureTLS)
	}
	robots := scraper.NewRobotsGate(cfg.UserAgent, cfg.RequestTimeout)

	sum := services.NewRunSummary()
	listings := scrapeSites(ctx, cfg, logger, fetcher, robots, sum)
	listings = filterDetails(ctx, cfg, logger, fetcher, listings, sum)

	geocoder := geo.NewClient(cfg.NominatimBaseURL, cfg.GeocoderUserAgent,
		cfg.RequestTimeout, cfg.SleepBetweenGeocode)
	center := services.ResolveCenter(ctx, logger, geocoder, cfg.CenterName,
		geo.Point{Lat: cfg.CenterFallbackLat, Lon: cfg.CenterFallbackLon})
	logger.Info("Center resolved: %.4f, %.4f", center.Lat, center.Lon)

	resolver := services.NewResolver(logger, geocoder, geoCache, revCache, center, cfg.RadiusKm)
	var enriched []models.Listing
	for _, l := range listings {
		resolved, outcome := resolver.Resolve(ctx, l)
		sum.Count(outcome)
		if outcome == services.Enriched {
			enriched = append(enriched, resolved)
		}
	}

	newCount, err := store.Write(enriched, prevURLs)
	if err != nil {
		logger.Error("Snapshot write failed: %v", err)
	}
	sum.New = newCount

	if cfg.PostgresEnabled {
		mirrorToPostgres(cfg, logger, enriched)
	}

	mapWriter := render.NewMapWriter(logger)
	if err := mapWriter.Write(cfg.MapHTMLPath, enriched); err != nil {
		logger.Error("Map write failed: %v", err)
	}

	services.NewSummaryService(logger).Print(sum, cfg.RadiusKm,
		cfg.SnapshotCSVPath, cfg.NewCSVPath, cfg.MapHTMLPath)
}

// scrapeSites fetches every configured search page in order and
// returns the deduplicated listings, first occurrence winning.
func scrapeSites(ctx context.Context, cfg *config.Config, logger *utils.Logger, fetcher scraper.Fetcher, robots *scraper.RobotsGate, sum *services.RunSummary) []models.Listing {
	throttle := utils.NewThrottle(cfg.SleepBetweenSites)
	seen := make(map[string]struct{})
	var out []models.Listing

	for _, site := range cfg.Sites {
		if err := throttle.Wait(ctx); err != nil {
			break
		}
		if !robots.Allowed(site) {
			logger.Warn("[scrape] robots.txt disallows %s — skipping", site)
			continue
		}

		host := scraper.HostOf(site)
		logger.Info("[scrape] fetching %s", site)
		pageHTML, err := fetcher.Fetch(ctx, site, scraper.RefererFor(host))
		if err != nil {
			logger.Error("[scrape] %s failed: %v", site, err)
			continue
		}

		found, err := scraper.ExtractListings(pageHTML, site, time.Now(), cfg.Keywords)
		if err != nil {
			logger.Error("[scrape] could not parse %s: %v", site, err)
			continue
		}
		logger.Info("[scrape] %s: %d listings", host, len(found))
		sum.PerSource[host] += len(found)
		sum.Scraped += len(found)

		for _, l := range found {
			if _, dup := seen[l.URL]; dup {
				continue
			}
			seen[l.URL] = struct{}{}
			out = append(out, l)
		}
	}

	sum.Unique = len(out)
	return out
}

// filterDetails drops listings from sources whose search pages mix
// object types, by checking the detail page for bungalow wording.
func filterDetails(ctx context.Context, cfg *config.Config, logger *utils.Logger, fetcher scraper.Fetcher, listings []models.Listing, sum *services.RunSummary) []models.Listing {
	throttle := utils.NewThrottle(cfg.SleepBetweenDetailPages)
	out := listings[:0]

	for _, l := range listings {
		host := scraper.HostOf(l.URL)
		if !scraper.NeedsBungalowCheck(host) {
			out = append(out, l)
			continue
		}
		if err := throttle.Wait(ctx); err != nil {
			break
		}
		if !scraper.IsBungalowDetail(ctx, fetcher, l.URL, host) {
			logger.Debug("[detail] not a bungalow: %s", l.URL)
			continue
		}
		out = append(out, l)
	}

	sum.Filtered = len(out)
	return out
}

// mirrorToPostgres is best effort: a failing database never fails the
// run, the CSV snapshot stays the source of truth.
func mirrorToPostgres(cfg *config.Config, logger *utils.Logger, listings []models.Listing) {
	pg, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("PostgreSQL unavailable: %v — skipping mirror", err)
		return
	}
	defer pg.Close()

	if err := pg.Write(listings); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		return
	}
	logger.Info("Snapshot mirrored to PostgreSQL (table: listings)")
}
