// Package leaflet renders facilities onto a self-contained Leaflet HTML map
// with one toggleable overlay layer per facility category.
package leaflet

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/couchcryptid/health-facility-map/internal/atomicfile"
	"github.com/couchcryptid/health-facility-map/internal/domain"
)

// PopupMaxWidth is the popup width cap in pixels.
const PopupMaxWidth = 300

// Marker is one placed facility.
type Marker struct {
	Row   int     `json:"-"`
	Name  string  `json:"-"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Color string  `json:"color"`
	Popup string  `json:"popup"`
}

// Layer is a toggleable overlay holding the markers of one category.
type Layer struct {
	Name    string   `json:"-"`
	Color   string   `json:"-"`
	Label   string   `json:"label"`
	Show    bool     `json:"show"`
	Markers []Marker `json:"markers"`
}

// Map is the map canvas: fixed center and zoom, ordered category layers.
type Map struct {
	center  domain.Coordinates
	zoom    int
	palette *domain.Palette
	layers  []*Layer
	byName  map[string]*Layer
}

// NewMap creates a map centered on center with one visible, empty layer per
// palette category, in palette order.
func NewMap(center domain.Coordinates, zoom int, palette *domain.Palette) *Map {
	m := &Map{
		center:  center,
		zoom:    zoom,
		palette: palette,
		byName:  make(map[string]*Layer, palette.Len()+1),
	}
	for _, e := range palette.Entries() {
		m.addLayer(e.Category, e.Color)
	}
	return m
}

func (m *Map) addLayer(name, color string) *Layer {
	l := &Layer{
		Name:    name,
		Color:   color,
		Label:   mustExecute(labelTmpl, struct{ Name, Color string }{name, color}),
		Show:    true,
		Markers: []Marker{},
	}
	m.layers = append(m.layers, l)
	m.byName[name] = l
	return l
}

// AddFacility places a marker for f in its category layer. Facilities
// without coordinates are skipped and AddFacility returns "", false.
// Categories outside the palette go to the catch-all layer, created on first
// use. It returns the name of the layer that received the marker.
func (m *Map) AddFacility(f domain.Facility) (string, bool) {
	if f.Coordinates == nil {
		return "", false
	}

	layerName := m.palette.LayerFor(f.Category)
	layer, ok := m.byName[layerName]
	if !ok {
		layer = m.addLayer(layerName, m.palette.Default())
	}

	layer.Markers = append(layer.Markers, Marker{
		Row:   f.Row,
		Name:  f.Name,
		Lat:   f.Coordinates.Lat,
		Lon:   f.Coordinates.Lon,
		Color: m.palette.Color(f.Category),
		Popup: PopupHTML(f),
	})
	return layerName, true
}

// Layers returns the layers in control order.
func (m *Map) Layers() []*Layer {
	out := make([]*Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// Layer looks up a layer by category name.
func (m *Map) Layer(name string) (*Layer, bool) {
	l, ok := m.byName[name]
	return l, ok
}

// MarkerCount returns the number of markers across all layers.
func (m *Map) MarkerCount() int {
	n := 0
	for _, l := range m.layers {
		n += len(l.Markers)
	}
	return n
}

// PopupHTML renders the popup body for a facility.
func PopupHTML(f domain.Facility) string {
	return mustExecute(popupTmpl, struct {
		domain.Facility
		Link string
	}{f, domain.PlacesLink(f.Name)})
}

type pageData struct {
	Center   domain.Coordinates
	Zoom     int
	MaxWidth int
	Layers   []*Layer
}

// Render writes the complete HTML document.
func (m *Map) Render(w io.Writer) error {
	err := pageTmpl.Execute(w, pageData{
		Center:   m.center,
		Zoom:     m.zoom,
		MaxWidth: PopupMaxWidth,
		Layers:   m.layers,
	})
	if err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}

// Save renders the map to path. The document is written to a temporary file
// in the same directory and renamed into place, so path is either the old
// content or the complete new map.
func (m *Map) Save(path string) error {
	var buf bytes.Buffer
	if err := m.Render(&buf); err != nil {
		return err
	}
	return atomicfile.Write(path, buf.Bytes())
}

func mustExecute(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic(err)
	}
	return buf.String()
}
