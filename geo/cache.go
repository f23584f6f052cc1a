package geo

import (
	"encoding/json"
	"fmt"
	"os"
)

// GeoCache maps listing URLs and address strings to resolved
// coordinates. A present key is authoritative and never re-queried.
// The file is rewritten on every Put so an interrupted run loses at
// most the in-flight resolution.
type GeoCache struct {
	path    string
	entries map[string]Point
}

// NewGeoCache returns an empty cache persisting to path.
func NewGeoCache(path string) *GeoCache {
	return &GeoCache{path: path, entries: make(map[string]Point)}
}

// LoadGeoCache reads the cache file at path. A missing file yields an
// empty cache; a corrupt file is an error.
func LoadGeoCache(path string) (*GeoCache, error) {
	c := NewGeoCache(path)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("geocache: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &c.entries); err != nil {
		return nil, fmt.Errorf("geocache: parse %s: %w", path, err)
	}
	return c, nil
}

// Get returns the cached coordinate for key.
func (c *GeoCache) Get(key string) (Point, bool) {
	pt, ok := c.entries[key]
	return pt, ok
}

// Put stores pt under every key and persists the file immediately.
func (c *GeoCache) Put(pt Point, keys ...string) error {
	for _, k := range keys {
		c.entries[k] = pt
	}
	return writeJSON(c.path, c.entries)
}

// Len returns the number of cached keys.
func (c *GeoCache) Len() int {
	return len(c.entries)
}

type revEntry struct {
	Municipality string `json:"municipality"`
}

// ReverseCache maps quantized "lat,lon" keys to municipality names.
// Same persistence discipline as GeoCache; an empty municipality is a
// valid cached answer.
type ReverseCache struct {
	path    string
	entries map[string]revEntry
}

// NewReverseCache returns an empty cache persisting to path.
func NewReverseCache(path string) *ReverseCache {
	return &ReverseCache{path: path, entries: make(map[string]revEntry)}
}

// LoadReverseCache reads the cache file at path. A missing file yields
// an empty cache; a corrupt file is an error.
func LoadReverseCache(path string) (*ReverseCache, error) {
	c := NewReverseCache(path)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("revcache: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &c.entries); err != nil {
		return nil, fmt.Errorf("revcache: parse %s: %w", path, err)
	}
	return c, nil
}

// Get returns the cached municipality for key. The second result
// distinguishes "cached as empty" from "not cached".
func (c *ReverseCache) Get(key string) (string, bool) {
	e, ok := c.entries[key]
	return e.Municipality, ok
}

// Put stores the municipality under key and persists immediately.
func (c *ReverseCache) Put(key, municipality string) error {
	c.entries[key] = revEntry{Municipality: municipality}
	return writeJSON(c.path, c.entries)
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("cache: write %s: %w", path, err)
	}
	return nil
}
