package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bungalows-map/models"
)

func enrichedListing(url string) models.Listing {
	l := models.Listing{
		ScrapedAt:    time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC),
		Source:       "www.funda.nl",
		Title:        "Rendierlaan 6 5704 DC Helmond",
		PriceText:    "€ 450.000 k.k.",
		LocationText: "5704 DC Helmond",
		SinceText:    "3 dagen geleden",
		URL:          url,
	}
	return l.WithGeo(51.4793, 5.6576, 63.4, "Helmond")
}

func TestPreviousURLsMissingFile(t *testing.T) {
	s := NewSnapshotStore(filepath.Join(t.TempDir(), "absent.csv"), "")
	urls, err := s.PreviousURLs()
	if err != nil {
		t.Fatalf("PreviousURLs: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("expected empty set, got %v", urls)
	}
}

func TestSnapshotRoundTripAndDiff(t *testing.T) {
	dir := t.TempDir()
	s := NewSnapshotStore(filepath.Join(dir, "snapshot.csv"), filepath.Join(dir, "new.csv"))

	oldURL := "https://www.funda.nl/detail/koop/helmond/huis-oud-1/111/"
	newURL := "https://www.funda.nl/detail/koop/vijlen/huis-nieuw-2/222/"

	// First run: both listings are new.
	first := []models.Listing{enrichedListing(oldURL), enrichedListing(newURL)}
	n, err := s.Write(first, map[string]struct{}{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 2 {
		t.Errorf("first run new count = %d; want 2", n)
	}

	prev, err := s.PreviousURLs()
	if err != nil {
		t.Fatalf("PreviousURLs: %v", err)
	}
	if len(prev) != 2 {
		t.Fatalf("previous URL set = %v; want 2 entries", prev)
	}

	// Second run: one carried-over listing, one fresh one.
	freshURL := "https://www.funda.nl/detail/koop/heerlen/huis-vers-3/333/"
	second := []models.Listing{enrichedListing(oldURL), enrichedListing(freshURL)}
	n, err = s.Write(second, prev)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 1 {
		t.Errorf("second run new count = %d; want 1", n)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "new.csv"))
	if err != nil {
		t.Fatalf("read new.csv: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, freshURL) {
		t.Error("fresh URL missing from new-listings file")
	}
	if strings.Contains(content, oldURL) {
		t.Error("carried-over URL must not appear in new-listings file")
	}
}

func TestSnapshotColumnOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.csv")
	s := NewSnapshotStore(path, filepath.Join(dir, "new.csv"))

	url := "https://www.funda.nl/detail/koop/helmond/huis-rendierlaan-6/432/"
	if _, err := s.Write([]models.Listing{enrichedListing(url)}, map[string]struct{}{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("snapshot has %d lines; want header + 1 row", len(lines))
	}

	wantHeader := "scraped_at;source;title;price_text;location_text;since_text;url;municipality;lat;lon;distance_km"
	if lines[0] != wantHeader {
		t.Errorf("header = %q", lines[0])
	}

	row := strings.Split(lines[1], ";")
	if row[0] != "2026-08-28T09:30:00" {
		t.Errorf("scraped_at = %q", row[0])
	}
	if row[8] != "51.4793" || row[9] != "5.6576" {
		t.Errorf("lat/lon = %q/%q", row[8], row[9])
	}
	if row[10] != "63.4" {
		t.Errorf("distance_km = %q; want one decimal", row[10])
	}
}

func TestSnapshotUnenrichedFieldsSerializeEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.csv")
	s := NewSnapshotStore(path, filepath.Join(dir, "new.csv"))

	l := models.Listing{
		ScrapedAt: time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC),
		Source:    "www.funda.nl",
		Title:     "Zonder geo",
		URL:       "https://www.funda.nl/detail/koop/x/huis-y/1/",
	}
	if _, err := s.Write([]models.Listing{l}, map[string]struct{}{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	row := strings.Split(lines[1], ";")
	for _, i := range []int{7, 8, 9, 10} {
		if row[i] != "" {
			t.Errorf("column %d = %q; want empty", i, row[i])
		}
	}
}

func TestSnapshotOverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.csv")
	s := NewSnapshotStore(path, filepath.Join(dir, "new.csv"))

	a := enrichedListing("https://www.funda.nl/detail/koop/a/huis-a/1/")
	b := enrichedListing("https://www.funda.nl/detail/koop/b/huis-b/2/")

	if _, err := s.Write([]models.Listing{a, b}, map[string]struct{}{}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write([]models.Listing{b}, map[string]struct{}{}); err != nil {
		t.Fatal(err)
	}

	urls, err := s.PreviousURLs()
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 {
		t.Errorf("snapshot not overwritten: %v", urls)
	}
	if _, ok := urls[b.URL]; !ok {
		t.Error("expected only the second run's URL")
	}
}
