package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bungalows-map/utils"
)

// Client talks to a Nominatim instance over HTTP. Forward and reverse
// lookups share a single throttle, so the service never sees more than
// one request per configured interval regardless of which call type or
// cache path triggered it.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	throttle  *utils.Throttle
}

// NewClient creates a Client for the given Nominatim base URL.
// minInterval is the etiquette spacing between any two requests.
func NewClient(baseURL, userAgent string, timeout, minInterval time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
		throttle:  utils.NewThrottle(minInterval),
	}
}

// Geocode resolves a free-form query via /search. It returns ok=false
// when the service has no match for the query.
func (c *Client) Geocode(ctx context.Context, query string) (Point, bool, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("accept-language", "nl")
	params.Set("q", query)

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return Point{}, false, err
	}
	if len(results) == 0 {
		return Point{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, false, fmt.Errorf("nominatim: parse lat %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, false, fmt.Errorf("nominatim: parse lon %q: %w", results[0].Lon, err)
	}
	return Point{Lat: lat, Lon: lon}, true, nil
}

// Reverse resolves a coordinate to an address breakdown via /reverse.
// Zoom 10 asks for municipality-level detail. ok=false means the
// service returned no address for the coordinate.
func (c *Client) Reverse(ctx context.Context, pt Point) (Address, bool, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("accept-language", "nl")
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")
	params.Set("lat", strconv.FormatFloat(pt.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(pt.Lon, 'f', -1, 64))

	var result struct {
		Error   string  `json:"error"`
		Address Address `json:"address"`
	}
	if err := c.get(ctx, "/reverse", params, &result); err != nil {
		return Address{}, false, err
	}
	if result.Error != "" {
		return Address{}, false, nil
	}
	return result.Address, true, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.throttle.Wait(ctx); err != nil {
		return fmt.Errorf("nominatim: throttle: %w", err)
	}

	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("nominatim: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("nominatim: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim: %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("nominatim: decode %s response: %w", path, err)
	}
	return nil
}
