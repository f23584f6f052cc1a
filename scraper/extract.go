package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"bungalows-map/models"
	"bungalows-map/utils"
)

var (
	// priceRe captures a euro amount with an optional qualifier (k.k., v.o.n.).
	priceRe = regexp.MustCompile(`(?i)€\s?[\d.,]+(?:\s*[a-z.]+)?`)
	// postcodeBlockRe captures a postal code plus up to 80 trailing
	// characters, stopping at separators.
	postcodeBlockRe = regexp.MustCompile(`\b\d{4}\s*[A-Z]{2}\b[^|•\n]{0,80}`)
	// sinceRe captures posting-age phrases and short dates.
	sinceRe = regexp.MustCompile(`(?i)(\d+\s*(?:dagen?|uren?)\s*geleden|nieuw|vandaag|gisteren|\b\d{1,2}[-/]\d{1,2}[-/]\d{4}\b)`)
)

// locationSelectors is tried in order on the card before falling back
// to the postal-code regex.
var locationSelectors = []string{
	".location", ".address", ".plaats", ".place", "[class*=location]", "[data-test*=location]",
}

// skipSubstrings rejects non-listing links outright.
var skipSubstrings = []string{
	"mailto:", "tel:", "javascript:", "privacy", "cookie", "contact", "login", "inloggen",
}

// AbsoluteURL resolves href against base. Absolute hrefs pass through.
func AbsoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

// ExtractListings parses one search-results page into listing records.
// Links that are too short, disallowed, or not detail pages of the
// source host are rejected. Output is deduplicated by absolute URL
// with the first occurrence winning.
func ExtractListings(pageHTML, searchURL string, now time.Time, keywords []string) ([]models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("extract: parse page: %w", err)
	}

	siteHost := HostOf(searchURL)
	seen := make(map[string]struct{})
	var listings []models.Listing

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := utils.NormalizeSpace(a.Text())
		if href == "" || utf8.RuneCountInString(title) < 4 {
			return
		}

		detailURL := AbsoluteURL(searchURL, href)
		low := strings.ToLower(detailURL)
		for _, s := range skipSubstrings {
			if strings.Contains(low, s) {
				return
			}
		}
		if !IsDetailURL(siteHost, low) {
			return
		}

		// The nearest block-level ancestor is the listing card; its
		// text is the context for price/location/age extraction.
		card := a.ParentsFiltered("article, li, div").First()
		cardText := title
		if card.Length() > 0 {
			cardText = utils.NormalizeSpace(card.Text())
		}

		if !utils.KeywordsMatch(title+" "+cardText, keywords) {
			return
		}

		priceText := utils.NormalizeSpace(priceRe.FindString(cardText))

		locationText := ""
		for _, sel := range locationSelectors {
			el := card.Find(sel).First()
			if el.Length() > 0 {
				locationText = utils.NormalizeSpace(el.Text())
				break
			}
		}
		if locationText == "" {
			locationText = utils.NormalizeSpace(postcodeBlockRe.FindString(cardText))
		}

		sinceText := ""
		if m := sinceRe.FindStringSubmatch(cardText); len(m) > 1 {
			sinceText = utils.NormalizeSpace(m[1])
		}

		if _, dup := seen[detailURL]; dup {
			return
		}
		seen[detailURL] = struct{}{}

		listings = append(listings, models.Listing{
			ScrapedAt:    now,
			Source:       siteHost,
			Title:        title,
			PriceText:    priceText,
			LocationText: locationText,
			SinceText:    sinceText,
			URL:          detailURL,
		})
	})

	return listings, nil
}
