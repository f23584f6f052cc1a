package scraper

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// Detail-page patterns per known source host. A host without a pattern
// admits no links.
var (
	fundaDetailRe     = regexp.MustCompile(`(?i)^https?://(www\.)?funda\.nl/detail/koop/.+/huis-.+/\d+/?`)
	woonpleinDetailRe = regexp.MustCompile(`(?i)^https?://woonpleinlimburg\.nl/koop/woonhuis/[^/]+/woonhuis-\d+-`)
)

// IsDetailURL reports whether lowURL (already lowercased) is a listing
// detail page for the given source host.
func IsDetailURL(siteHost, lowURL string) bool {
	switch {
	case strings.Contains(siteHost, "funda.nl"):
		return fundaDetailRe.MatchString(lowURL)
	case strings.Contains(siteHost, "woonpleinlimburg.nl"):
		return woonpleinDetailRe.MatchString(lowURL)
	}
	return false
}

// RefererFor returns the referer header to send when fetching pages of
// the given host.
func RefererFor(host string) string {
	if strings.Contains(host, "funda.nl") {
		return "https://www.funda.nl/"
	}
	return "https://woonpleinlimburg.nl/"
}

// HostOf returns the lowercased host of rawURL, or "" if it does not
// parse.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// NeedsBungalowCheck reports whether listings from host require a
// detail-page check. Funda search URLs are already filtered to
// bungalows; other sources are not.
func NeedsBungalowCheck(host string) bool {
	return !strings.Contains(host, "funda.nl")
}

// interstitial markers that mean the page body is a bot wall, not a
// listing.
var botWallMarkers = []string{"je bent bijna op de pagina", "captcha", "cloudflare"}

// IsBungalowDetail fetches the detail page at pageURL and reports
// whether it looks like a bungalow listing. Fetch failures and bot
// interstitials count as no.
func IsBungalowDetail(ctx context.Context, f Fetcher, pageURL, host string) bool {
	body, err := f.Fetch(ctx, pageURL, RefererFor(host))
	if err != nil {
		return false
	}

	t := strings.ToLower(body)
	for _, marker := range botWallMarkers {
		if strings.Contains(t, marker) {
			return false
		}
	}
	return strings.Contains(t, "bungalow")
}
