package leaflet

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/health-facility-map/internal/domain"
)

var florence = domain.Coordinates{Lat: 43.7696, Lon: 11.2558}

func newTestMap() *Map {
	return NewMap(florence, 12, domain.DefaultPalette())
}

func geocodedFacility(row int, name, category string) domain.Facility {
	return domain.Facility{
		Row:          row,
		Name:         name,
		Category:     category,
		Street:       "Viale Morgagni 85",
		Municipality: "Firenze",
		Province:     "FIRENZE",
		PostalCode:   "50134",
		Phone:        "055 794111",
		Coordinates:  &domain.Coordinates{Lat: 43.80, Lon: 11.24},
	}
}

func TestNewMap_OneVisibleLayerPerCategory(t *testing.T) {
	m := newTestMap()

	layers := m.Layers()
	require.Len(t, layers, 9)
	for i, e := range domain.DefaultPalette().Entries() {
		assert.Equal(t, e.Category, layers[i].Name)
		assert.Equal(t, e.Color, layers[i].Color)
		assert.True(t, layers[i].Show)
		assert.Empty(t, layers[i].Markers)
	}
	assert.Equal(t, `<i class="fa fa-map-marker fa-2x" style="color:blue"></i> CASA DI CURA`, layers[0].Label)
	assert.Equal(t, 0, m.MarkerCount())
}

func TestAddFacility_NullCoordinatesSkipped(t *testing.T) {
	m := newTestMap()
	f := geocodedFacility(1, "Villa Donatello", "CASA DI CURA")
	f.Coordinates = nil

	layer, added := m.AddFacility(f)

	assert.False(t, added)
	assert.Empty(t, layer)
	assert.Equal(t, 0, m.MarkerCount())
}

func TestAddFacility_KnownCategory(t *testing.T) {
	m := newTestMap()

	layerName, added := m.AddFacility(geocodedFacility(1, "Villa Donatello", "CASA DI CURA"))
	require.True(t, added)
	assert.Equal(t, "CASA DI CURA", layerName)
	assert.Equal(t, 1, m.MarkerCount())

	layer, ok := m.Layer("CASA DI CURA")
	require.True(t, ok)
	require.Len(t, layer.Markers, 1)

	mk := layer.Markers[0]
	assert.Equal(t, 43.80, mk.Lat)
	assert.Equal(t, 11.24, mk.Lon)
	assert.Equal(t, "blue", mk.Color)
	assert.Contains(t, mk.Popup, "Villa Donatello")
	assert.Contains(t, mk.Popup, "055 794111")
	assert.Contains(t, mk.Popup, "<b>Type:</b> CASA DI CURA")
	assert.Contains(t, mk.Popup, "<b>Address:</b> Viale Morgagni 85, Firenze")
	assert.Contains(t, mk.Popup, "View on Google Places")
}

func TestAddFacility_UnknownCategoryGoesToCatchAll(t *testing.T) {
	m := newTestMap()

	layerName, added := m.AddFacility(geocodedFacility(1, "Farmacia Comunale", "FARMACIA"))
	require.True(t, added)
	assert.Equal(t, domain.OtherCategory, layerName)

	layers := m.Layers()
	require.Len(t, layers, 10)
	other := layers[9]
	assert.Equal(t, domain.OtherCategory, other.Name)
	assert.Equal(t, domain.DefaultColor, other.Color)
	require.Len(t, other.Markers, 1)
	assert.Equal(t, domain.DefaultColor, other.Markers[0].Color)

	_, _ = m.AddFacility(geocodedFacility(2, "Ottica Centrale", "OTTICA"))
	assert.Len(t, m.Layers(), 10, "catch-all layer is created once")
	assert.Len(t, other.Markers, 2)
}

func TestPopupHTML_EscapesFields(t *testing.T) {
	f := geocodedFacility(1, `Studio <Rossi> & Figli`, "STUDIO ODONTOIATRICO")
	popup := PopupHTML(f)

	assert.Contains(t, popup, "Studio &lt;Rossi&gt; &amp; Figli")
	assert.NotContains(t, popup, "<Rossi>")
}

func TestRender_Document(t *testing.T) {
	m := newTestMap()
	_, _ = m.AddFacility(geocodedFacility(1, "Villa Donatello", "CASA DI CURA"))

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf))
	html := buf.String()

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "leaflet.js")
	assert.Contains(t, html, "leaflet.awesome-markers.js")
	assert.Contains(t, html, "Villa Donatello")
	assert.Contains(t, html, "055 794111")
	assert.Contains(t, html, "43.7696")
	assert.Contains(t, html, "{collapsed: false, autoZIndex: false}")
	assert.Equal(t, 9, strings.Count(html, "fa-map-marker"), "one control entry per category layer")
}

func TestRender_Deterministic(t *testing.T) {
	build := func() []byte {
		m := newTestMap()
		_, _ = m.AddFacility(geocodedFacility(1, "Villa Donatello", "CASA DI CURA"))
		_, _ = m.AddFacility(geocodedFacility(2, "Lab Centro", "LABORATORIO ANALISI"))
		var buf bytes.Buffer
		require.NoError(t, m.Render(&buf))
		return buf.Bytes()
	}

	assert.Equal(t, build(), build())
}

func TestSave_WritesFile(t *testing.T) {
	m := newTestMap()
	_, _ = m.AddFacility(geocodedFacility(1, "Villa Donatello", "CASA DI CURA"))

	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, m.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Villa Donatello")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSave_UnwritablePath(t *testing.T) {
	m := newTestMap()
	err := m.Save(filepath.Join(t.TempDir(), "missing-dir", "index.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create output file")
}
