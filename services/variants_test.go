package services

import (
	"reflect"
	"testing"

	"bungalows-map/models"
)

func TestExtractPostcode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5704 DC Helmond", "5704 DC"},
		{"5704DC Helmond", "5704 DC"},
		{"Rendierlaan 6 5704 dc Helmond", "5704 DC"}, // letters normalized to uppercase
		{"geen postcode hier", ""},
		{"", ""},
		{"123 AB", ""},
	}

	for _, tt := range tests {
		if got := ExtractPostcode(tt.in); got != tt.want {
			t.Errorf("ExtractPostcode(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractPlaceFromLocationText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5704 DC Helmond € 450.000 k.k.", "Helmond"},
		{"6294 AS Vijlen 120 m² tuin", "Vijlen"},
		{"5704 DC Helmond", "Helmond"},
		{"6301 AB Valkenburg aan de Geul", "Valkenburg aan de Geul"},
		{"zonder postcode", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractPlaceFromLocationText(tt.in); got != tt.want {
			t.Errorf("ExtractPlaceFromLocationText(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractPlaceFromFundaURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.funda.nl/detail/koop/helmond/huis-rendierlaan-6/43210987/", "helmond"},
		{"https://www.funda.nl/detail/koop/valkenburg-aan-de-geul/huis-x/1/", "valkenburg aan de geul"},
		{"https://woonpleinlimburg.nl/koop/woonhuis/heerlen/woonhuis-1-x", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractPlaceFromFundaURL(tt.in); got != tt.want {
			t.Errorf("ExtractPlaceFromFundaURL(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractStreetFromTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Rendierlaan 6 5704 DC Helmond", "Rendierlaan 6"},
		{"Bergweg 12-a 6294 AS Vijlen", "Bergweg 12-a"},
		{"Mooie bungalow zonder postcode", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractStreetFromTitle(tt.in); got != tt.want {
			t.Errorf("ExtractStreetFromTitle(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestGuessAddressVariantsMostSpecificFirst(t *testing.T) {
	l := models.Listing{
		Title:        "Rendierlaan 6 5704 DC Helmond",
		LocationText: "5704 DC Helmond € 450.000 k.k.",
		URL:          "https://www.funda.nl/detail/koop/helmond/huis-rendierlaan-6/43210987/",
	}

	got := GuessAddressVariants(l)
	want := []string{
		"Rendierlaan 6, 5704 DC Helmond, Nederland",
		"5704 DC Helmond, Nederland",
		"Rendierlaan 6 5704 DC Helmond, Nederland",
		"Helmond, Nederland",
		"Limburg, Nederland",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GuessAddressVariants =\n%v\nwant\n%v", got, want)
	}
}

func TestGuessAddressVariantsPlaceFromURL(t *testing.T) {
	// No location text: the place comes from the funda URL segment.
	l := models.Listing{
		Title: "Bungalow met garage",
		URL:   "https://www.funda.nl/detail/koop/vijlen/huis-bergweg-12/555/",
	}

	got := GuessAddressVariants(l)
	want := []string{
		"Bungalow met garage, Nederland",
		"vijlen, Nederland",
		"Limburg, Nederland",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GuessAddressVariants =\n%v\nwant\n%v", got, want)
	}
}

func TestGuessAddressVariantsAlwaysEndsWithFallback(t *testing.T) {
	got := GuessAddressVariants(models.Listing{})
	if len(got) != 1 || got[0] != "Limburg, Nederland" {
		t.Errorf("empty listing variants = %v; want only the fallback region", got)
	}
}

func TestGuessAddressVariantsDeduplicates(t *testing.T) {
	// Title is exactly "postcode place", so variant 2 and 3 collide.
	l := models.Listing{
		Title:        "5704 DC Helmond",
		LocationText: "5704 DC Helmond",
	}

	got := GuessAddressVariants(l)
	seen := make(map[string]int)
	for _, v := range got {
		seen[v]++
		if seen[v] > 1 {
			t.Errorf("variant %q appears more than once in %v", v, got)
		}
	}
}
