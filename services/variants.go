package services

import (
	"fmt"
	"regexp"
	"strings"

	"bungalows-map/models"
	"bungalows-map/utils"
)

var (
	// postcodeRe matches a Dutch postal code: 4 digits + 2 letters.
	postcodeRe = regexp.MustCompile(`\b(\d{4})\s*([A-Za-z]{2})\b`)
	// placeAfterPostcodeRe captures the place name trailing a postal code.
	placeAfterPostcodeRe = regexp.MustCompile("\\b\\d{4}\\s*[A-Z]{2}\\s+([A-Za-zÀ-ÿ'`\\- ]{2,})")
	// placeNoiseRe marks where listing-card noise starts inside a place
	// name: price, area, price qualifiers, or a stray capital token.
	placeNoiseRe = regexp.MustCompile(`\s+€|\s+\d+\s*m²|\s+k\.k\.|\s+v\.o\.n\.|\s+[A-Z]\s+`)
	// fundaPlaceRe pulls the place segment out of a funda detail URL.
	fundaPlaceRe = regexp.MustCompile(`funda\.nl/detail/koop/([^/]+)/`)
)

// fallbackRegion is the last-resort address variant.
const fallbackRegion = "Limburg, Nederland"

// ExtractPostcode returns the first postal code in text, normalized to
// "1234 AB" form with uppercase letters.
func ExtractPostcode(text string) string {
	m := postcodeRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + " " + strings.ToUpper(m[2])
}

// ExtractPlaceFromLocationText pulls the place name that follows the
// postal code, truncated at the first price or area token.
// "5704 DC Helmond € 450.000 k.k." yields "Helmond".
func ExtractPlaceFromLocationText(locationText string) string {
	m := placeAfterPostcodeRe.FindStringSubmatch(locationText)
	if m == nil {
		return ""
	}
	place := m[1]
	if loc := placeNoiseRe.FindStringIndex(place); loc != nil {
		place = place[:loc[0]]
	}
	return utils.NormalizeSpace(place)
}

// ExtractPlaceFromFundaURL derives the place name from the detail URL
// path segment, dashes converted to spaces.
func ExtractPlaceFromFundaURL(detailURL string) string {
	m := fundaPlaceRe.FindStringSubmatch(strings.ToLower(detailURL))
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], "-", " ")
}

// ExtractStreetFromTitle returns the title text preceding the postal
// code. "Rendierlaan 6 5704 DC Helmond" yields "Rendierlaan 6".
func ExtractStreetFromTitle(title string) string {
	loc := postcodeRe.FindStringIndex(title)
	if loc == nil {
		return ""
	}
	return utils.NormalizeSpace(title[:loc[0]])
}

// GuessAddressVariants derives the ordered, deduplicated list of
// geocodable address strings for a listing, most specific first.
func GuessAddressVariants(l models.Listing) []string {
	pc := ExtractPostcode(l.LocationText)
	if pc == "" {
		pc = ExtractPostcode(l.Title)
	}
	place := ExtractPlaceFromLocationText(l.LocationText)
	if place == "" {
		place = ExtractPlaceFromFundaURL(l.URL)
	}
	street := ExtractStreetFromTitle(l.Title)

	var variants []string
	if street != "" && pc != "" && place != "" {
		variants = append(variants, fmt.Sprintf("%s, %s %s, Nederland", street, pc, place))
	}
	if pc != "" && place != "" {
		variants = append(variants, fmt.Sprintf("%s %s, Nederland", pc, place))
	}
	if l.Title != "" {
		variants = append(variants, l.Title+", Nederland")
	}
	if place != "" {
		variants = append(variants, place+", Nederland")
	}
	variants = append(variants, fallbackRegion)

	seen := make(map[string]struct{}, len(variants))
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		v = utils.NormalizeSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
