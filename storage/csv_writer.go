package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bungalows-map/models"
)

// scrapedAtLayout matches the second-resolution timestamps in existing
// snapshot files.
const scrapedAtLayout = "2006-01-02T15:04:05"

// SnapshotStore manages the snapshot and new-listings CSV files. Both
// are semicolon-delimited with the fixed column order of
// models.Columns and overwritten every run.
type SnapshotStore struct {
	snapshotPath string
	newPath      string
}

// NewSnapshotStore creates a SnapshotStore for the given file paths.
func NewSnapshotStore(snapshotPath, newPath string) *SnapshotStore {
	return &SnapshotStore{snapshotPath: snapshotPath, newPath: newPath}
}

// PreviousURLs loads the set of listing URLs present in the previous
// snapshot. A missing file is an empty set, not an error.
func (s *SnapshotStore) PreviousURLs() (map[string]struct{}, error) {
	f, err := os.Open(s.snapshotPath)
	if os.IsNotExist(err) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: open previous snapshot: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		// Empty or truncated snapshot: treat as no previous URLs.
		return map[string]struct{}{}, nil
	}

	urlCol := -1
	for i, name := range header {
		if strings.TrimSpace(name) == "url" {
			urlCol = i
			break
		}
	}
	if urlCol == -1 {
		return map[string]struct{}{}, nil
	}

	urls := make(map[string]struct{})
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		if urlCol >= len(record) {
			continue
		}
		u := strings.TrimSpace(record[urlCol])
		if strings.HasPrefix(u, "http") {
			urls[u] = struct{}{}
		}
	}
	return urls, nil
}

// Write overwrites the snapshot file with the full enriched set and
// the new-listings file with the subset whose URL was absent from
// prevURLs. It returns the number of new listings.
func (s *SnapshotStore) Write(listings []models.Listing, prevURLs map[string]struct{}) (int, error) {
	if err := writeCSV(s.snapshotPath, listings); err != nil {
		return 0, err
	}

	var newListings []models.Listing
	for _, l := range listings {
		if _, seen := prevURLs[l.URL]; !seen {
			newListings = append(newListings, l)
		}
	}
	if err := writeCSV(s.newPath, newListings); err != nil {
		return 0, err
	}
	return len(newListings), nil
}

func writeCSV(path string, listings []models.Listing) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(models.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, l := range listings {
		if err := w.Write(rowFor(l)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// rowFor serializes a listing in models.Columns order. Geo fields of
// an unenriched listing serialize empty.
func rowFor(l models.Listing) []string {
	scrapedAt := ""
	if !l.ScrapedAt.IsZero() {
		scrapedAt = l.ScrapedAt.UTC().Format(scrapedAtLayout)
	}

	lat, lon, dist := "", "", ""
	if l.Located {
		lat = strconv.FormatFloat(l.Lat, 'f', -1, 64)
		lon = strconv.FormatFloat(l.Lon, 'f', -1, 64)
		dist = strconv.FormatFloat(l.DistanceKm, 'f', 1, 64)
	}

	return []string{
		scrapedAt,
		l.Source,
		l.Title,
		l.PriceText,
		l.LocationText,
		l.SinceText,
		l.URL,
		l.Municipality,
		lat,
		lon,
		dist,
	}
}
