package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"bungalows-map/models"
)

// PostgresWriter mirrors the enriched snapshot to PostgreSQL. The
// table holds exactly the latest run, like the snapshot CSV.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id            SERIAL PRIMARY KEY,
			scraped_at    TIMESTAMPTZ      NOT NULL,
			source        VARCHAR(100)     NOT NULL,
			title         TEXT             NOT NULL,
			price_text    TEXT             NOT NULL DEFAULT '',
			location_text TEXT             NOT NULL DEFAULT '',
			since_text    TEXT             NOT NULL DEFAULT '',
			url           TEXT             UNIQUE NOT NULL,
			municipality  TEXT             NOT NULL DEFAULT '',
			lat           DOUBLE PRECISION NOT NULL,
			lon           DOUBLE PRECISION NOT NULL,
			distance_km   NUMERIC(6,1)     NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_listings_municipality ON listings(municipality);
		CREATE INDEX IF NOT EXISTS idx_listings_distance     ON listings(distance_km);
	`)
	return err
}

// Clear deletes all listings from the previous run.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM listings")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the stored snapshot with the given enriched set.
func (pw *PostgresWriter) Write(listings []models.Listing) error {
	if err := pw.Clear(); err != nil {
		return err
	}
	if len(listings) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.Listing) error {
	const cols = 11
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.ScrapedAt, l.Source, l.Title, l.PriceText, l.LocationText,
			l.SinceText, l.URL, l.Municipality, l.Lat, l.Lon, l.DistanceKm)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (scraped_at, source, title, price_text, location_text,
		                      since_text, url, municipality, lat, lon, distance_km)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
