package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// defaultSite is the funda bungalow search already filtered by the
// query string (region, object type, publication date, bedrooms).
const defaultSite = `https://www.funda.nl/zoeken/koop?selected_area=[%22regio-zuid-limburg,50km%22]&object_type=[%22house%22]&object_type_house=[%22bungalow%22]&publication_date=%2210%22&bedrooms=%222-%22`

// Config holds all application configuration loaded from environment
// variables, with an optional YAML file for the site list.
type Config struct {
	Sites    []string
	Keywords []string

	UserAgent         string
	GeocoderUserAgent string
	Fetcher           string // "http" or "chrome"
	ChromeBin         string
	InsecureTLS       bool
	RequestTimeout    time.Duration

	SleepBetweenSites       time.Duration
	SleepBetweenDetailPages time.Duration
	SleepBetweenGeocode     time.Duration

	CenterName        string
	CenterFallbackLat float64
	CenterFallbackLon float64
	RadiusKm          float64

	NominatimBaseURL string

	SnapshotCSVPath  string
	NewCSVPath       string
	MapHTMLPath      string
	GeoCachePath     string
	ReverseCachePath string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		Sites:    getEnvList("SITES", []string{defaultSite}),
		Keywords: getEnvList("KEYWORDS", nil),

		UserAgent:         getEnv("USER_AGENT", "Mozilla/5.0 (compatible; ImmoWatchSnapshot/1.3)"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "bungalow_mapper/1.3"),
		Fetcher:           getEnv("FETCHER", "http"),
		ChromeBin:         getEnv("CHROME_BIN", ""),
		InsecureTLS:       getEnvBool("INSECURE_TLS", true),
		RequestTimeout:    getEnvDurationSec("REQUEST_TIMEOUT_SEC", 25),

		SleepBetweenSites:       getEnvDurationMs("SLEEP_BETWEEN_SITES_MS", 2000),
		SleepBetweenDetailPages: getEnvDurationMs("SLEEP_BETWEEN_DETAIL_PAGES_MS", 600),
		SleepBetweenGeocode:     getEnvDurationMs("SLEEP_BETWEEN_GEOCODE_MS", 1100),

		CenterName:        getEnv("CENTER_NAME", "Valkenburg aan de Geul, Nederland"),
		CenterFallbackLat: getEnvFloat("CENTER_FALLBACK_LAT", 50.8650),
		CenterFallbackLon: getEnvFloat("CENTER_FALLBACK_LON", 5.8320),
		RadiusKm:          getEnvFloat("RADIUS_KM", 100.0),

		NominatimBaseURL: getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),

		SnapshotCSVPath:  getEnv("SNAPSHOT_CSV_PATH", "bungalows_snapshot.csv"),
		NewCSVPath:       getEnv("NEW_CSV_PATH", "bungalows_new.csv"),
		MapHTMLPath:      getEnv("MAP_HTML_PATH", "bungalows_map.html"),
		GeoCachePath:     getEnv("GEO_CACHE_PATH", "geo_cache.json"),
		ReverseCachePath: getEnv("REVERSE_CACHE_PATH", "reverse_cache.json"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "bungalows_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}

	// A sites file overrides the env list.
	if path := os.Getenv("SITES_FILE"); path != "" {
		sites, err := loadSitesFile(path)
		if err != nil {
			log.Printf("[config] Could not read sites file %s: %v", path, err)
		} else if len(sites) > 0 {
			cfg.Sites = sites
		}
	}

	return cfg
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// loadSitesFile reads a YAML file of the form:
//
//	sites:
//	  - https://www.funda.nl/zoeken/koop?...
func loadSitesFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f struct {
		Sites []string `yaml:"sites"`
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}

	var sites []string
	for _, s := range f.Sites {
		if s = strings.TrimSpace(s); s != "" {
			sites = append(sites, s)
		}
	}
	return sites, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDurationMs(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMs)) * time.Millisecond
}

func getEnvDurationSec(key string, fallbackSec int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackSec)) * time.Second
}
