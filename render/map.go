package render

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bungalows-map/models"
	"bungalows-map/utils"
)

// marker is one plotted listing. Popup carries pre-escaped HTML; both
// strings are embedded in the page as JSON.
type marker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Popup   string  `json:"popup"`
	Tooltip string  `json:"tooltip"`
}

type mapData struct {
	Title     string
	CenterLat template.JS
	CenterLon template.JS
	Zoom      int
	Points    []marker
}

func jsFloat(f float64) template.JS {
	return template.JS(strconv.FormatFloat(f, 'f', 6, 64))
}

// MapWriter renders enriched listings as a self-contained HTML page
// with clustered Leaflet markers.
type MapWriter struct {
	logger *utils.Logger
}

// NewMapWriter creates a MapWriter with the given logger.
func NewMapWriter(logger *utils.Logger) *MapWriter {
	return &MapWriter{logger: logger}
}

// Write renders the map to path. Listings without coordinates are
// skipped; an empty set logs a warning and writes nothing.
func (w *MapWriter) Write(path string, listings []models.Listing) error {
	var located []models.Listing
	for _, l := range listings {
		if l.Located {
			located = append(located, l)
		}
	}
	if len(located) == 0 {
		w.logger.Warn("[map] no points to plot")
		return nil
	}

	var sumLat, sumLon float64
	for _, l := range located {
		sumLat += l.Lat
		sumLon += l.Lon
	}

	data := mapData{
		Title:     "Bungalows",
		CenterLat: jsFloat(sumLat / float64(len(located))),
		CenterLon: jsFloat(sumLon / float64(len(located))),
		Zoom:      9,
		Points:    make([]marker, 0, len(located)),
	}
	for _, l := range located {
		data.Points = append(data.Points, marker{
			Lat:     l.Lat,
			Lon:     l.Lon,
			Popup:   popupHTML(l),
			Tooltip: tooltip(l),
		})
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("map: create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("map: create file %q: %w", path, err)
	}
	defer f.Close()

	if err := mapTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("map: render: %w", err)
	}

	w.logger.Info("[map] wrote %d markers to %s", len(data.Points), path)
	return nil
}

func popupHTML(l models.Listing) string {
	return fmt.Sprintf("<b>%s</b><br>%s<br><i>%s</i> — %.1f km<br><a href='%s' target='_blank'>link</a>",
		template.HTMLEscapeString(l.Title),
		template.HTMLEscapeString(l.PriceText),
		template.HTMLEscapeString(municipalityOrPlaceholder(l)),
		l.DistanceKm,
		template.HTMLEscapeString(l.URL),
	)
}

func tooltip(l models.Listing) string {
	return strings.Trim(l.Municipality+" | "+l.PriceText, " |")
}

func municipalityOrPlaceholder(l models.Listing) string {
	if l.Municipality == "" {
		return "Onbekende gemeente"
	}
	return l.Municipality
}

// mapTemplate loads Leaflet and markercluster from CDN and plots the
// marker set; html/template JSON-encodes Points in script context.
var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css">
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"></script>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

var cluster = L.markerClusterGroup();
var points = {{.Points}};
points.forEach(function (p) {
  var m = L.marker([p.lat, p.lon]);
  m.bindPopup(p.popup, {maxWidth: 350});
  if (p.tooltip) {
    m.bindTooltip(p.tooltip);
  }
  cluster.addLayer(m);
});
map.addLayer(cluster);
L.control.layers(null, {'{{.Title}}': cluster}).addTo(map);
</script>
</body>
</html>
`))
