package scraper

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate evaluates robots.txt before a search page is fetched.
// Rules are fetched once per host and memoized for the run. The gate
// fails open: an unreachable or unparsable robots file allows
// everything.
type RobotsGate struct {
	userAgent string
	client    *http.Client
	groups    map[string]*robotstxt.Group // scheme://host -> group, nil allows all
}

// NewRobotsGate creates a RobotsGate for the given user agent.
func NewRobotsGate(userAgent string, timeout time.Duration) *RobotsGate {
	return &RobotsGate{
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		groups:    make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether pageURL may be fetched for the configured
// user agent.
func (g *RobotsGate) Allowed(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return true
	}

	origin := u.Scheme + "://" + u.Host
	group, seen := g.groups[origin]
	if !seen {
		group = g.fetchGroup(origin)
		g.groups[origin] = group
	}
	if group == nil {
		return true
	}

	path := u.Path
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return group.Test(path)
}

func (g *RobotsGate) fetchGroup(origin string) *robotstxt.Group {
	resp, err := g.client.Get(origin + "/robots.txt")
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return data.FindGroup(g.userAgent)
}
