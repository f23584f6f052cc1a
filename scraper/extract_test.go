package scraper

import (
	"testing"
	"time"
)

const fundaSearchURL = "https://www.funda.nl/zoeken/koop?object_type_house=[%22bungalow%22]"

const fundaPage = `<html><body>
<ul>
  <li class="search-result">
    <a href="/detail/koop/helmond/huis-rendierlaan-6/43210987/">Rendierlaan 6 5704 DC Helmond</a>
    <div class="location">5704 DC Helmond</div>
    <span>€ 450.000 k.k.</span>
    <span>3 dagen geleden</span>
  </li>
  <li class="search-result">
    <a href="/detail/koop/vijlen/huis-bergweg-12/55512345/">Vrijstaande bungalow Bergweg 12</a>
    <span>6294 AS Vijlen € 375.000 v.o.n. vandaag</span>
  </li>
  <li class="search-result">
    <a href="/detail/koop/helmond/huis-rendierlaan-6/43210987/">Rendierlaan 6 5704 DC Helmond (foto)</a>
  </li>
  <li>
    <a href="/contact">Neem contact op</a>
  </li>
  <li>
    <a href="mailto:info@funda.nl">Stuur ons een mail</a>
  </li>
  <li>
    <a href="/detail/koop/venlo/huis-kortetitel/99887766/">NL</a>
  </li>
  <li>
    <a href="https://example.org/some-house/12345/">Huis op onbekende site</a>
  </li>
</ul>
</body></html>`

func TestExtractListingsFunda(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	listings, err := ExtractListings(fundaPage, fundaSearchURL, now, nil)
	if err != nil {
		t.Fatalf("ExtractListings: %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("got %d listings; want 2: %+v", len(listings), listings)
	}

	first := listings[0]
	if first.URL != "https://www.funda.nl/detail/koop/helmond/huis-rendierlaan-6/43210987/" {
		t.Errorf("first URL = %q", first.URL)
	}
	// Duplicate URL: first occurrence wins.
	if first.Title != "Rendierlaan 6 5704 DC Helmond" {
		t.Errorf("first Title = %q", first.Title)
	}
	if first.PriceText != "€ 450.000 k.k." {
		t.Errorf("PriceText = %q", first.PriceText)
	}
	if first.LocationText != "5704 DC Helmond" {
		t.Errorf("LocationText = %q (CSS selector candidate should win)", first.LocationText)
	}
	if first.SinceText != "3 dagen geleden" {
		t.Errorf("SinceText = %q", first.SinceText)
	}
	if first.Source != "www.funda.nl" {
		t.Errorf("Source = %q", first.Source)
	}
	if !first.ScrapedAt.Equal(now) {
		t.Errorf("ScrapedAt = %v", first.ScrapedAt)
	}
	if first.Located {
		t.Error("extractor must not set geo fields")
	}

	second := listings[1]
	// No location element: the postal-code regex fallback takes over.
	if second.LocationText != "6294 AS Vijlen € 375.000 v.o.n. vandaag" {
		t.Errorf("fallback LocationText = %q", second.LocationText)
	}
	if second.SinceText != "vandaag" {
		t.Errorf("SinceText = %q", second.SinceText)
	}
}

func TestExtractListingsRejectsNonDetailLinks(t *testing.T) {
	page := `<html><body>
	  <a href="/contact">Contactpagina hier</a>
	  <a href="/detail/koop/helmond/huis-x-1/123/">Mooie bungalow Helmond</a>
	  <a href="/zoeken/koop?page=2">Volgende pagina</a>
	</body></html>`

	listings, err := ExtractListings(page, fundaSearchURL, time.Now(), nil)
	if err != nil {
		t.Fatalf("ExtractListings: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings; want 1", len(listings))
	}
	if listings[0].URL != "https://www.funda.nl/detail/koop/helmond/huis-x-1/123/" {
		t.Errorf("URL = %q", listings[0].URL)
	}
}

func TestExtractListingsUnknownHostAdmitsNothing(t *testing.T) {
	page := `<html><body>
	  <a href="/detail/koop/helmond/huis-x-1/123/">Mooie bungalow Helmond</a>
	</body></html>`

	listings, err := ExtractListings(page, "https://example.org/zoeken", time.Now(), nil)
	if err != nil {
		t.Fatalf("ExtractListings: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("unknown host admitted %d listings", len(listings))
	}
}

func TestExtractListingsKeywordFilter(t *testing.T) {
	listings, err := ExtractListings(fundaPage, fundaSearchURL, time.Now(), []string{"vijlen"})
	if err != nil {
		t.Fatalf("ExtractListings: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings; want 1", len(listings))
	}
	if listings[0].Title != "Vrijstaande bungalow Bergweg 12" {
		t.Errorf("Title = %q", listings[0].Title)
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base string
		href string
		want string
	}{
		{"https://www.funda.nl/zoeken/koop", "/detail/koop/x/huis-y/1/", "https://www.funda.nl/detail/koop/x/huis-y/1/"},
		{"https://www.funda.nl/zoeken/koop", "https://woonpleinlimburg.nl/koop/a", "https://woonpleinlimburg.nl/koop/a"},
		{"https://woonpleinlimburg.nl/zoek-woningen/", "woonhuis-1", "https://woonpleinlimburg.nl/zoek-woningen/woonhuis-1"},
	}

	for _, tt := range tests {
		if got := AbsoluteURL(tt.base, tt.href); got != tt.want {
			t.Errorf("AbsoluteURL(%q, %q) = %q; want %q", tt.base, tt.href, got, tt.want)
		}
	}
}
