// Package geojson exports geocoded facilities as a GeoJSON FeatureCollection.
package geojson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/twpayne/go-geom"
	geomjson "github.com/twpayne/go-geom/encoding/geojson"

	"github.com/couchcryptid/health-facility-map/internal/atomicfile"
	"github.com/couchcryptid/health-facility-map/internal/domain"
)

// SRID of the exported points (WGS-84).
const SRID = 4326

// Exporter writes one Point feature per geocoded facility.
type Exporter struct {
	path    string
	palette *domain.Palette
}

// NewExporter creates an exporter writing to path.
func NewExporter(path string, palette *domain.Palette) *Exporter {
	return &Exporter{path: path, palette: palette}
}

// Name identifies the sink in logs and metrics.
func (e *Exporter) Name() string { return "geojson" }

// Export writes the FeatureCollection for t to the exporter's path and
// returns the number of features written.
func (e *Exporter) Export(ctx context.Context, t *domain.Table) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	facilities := t.Geocoded()
	var buf bytes.Buffer
	if err := Encode(&buf, facilities, e.palette); err != nil {
		return 0, err
	}
	if err := atomicfile.Write(e.path, buf.Bytes()); err != nil {
		return 0, err
	}
	return len(facilities), nil
}

// FeatureCollection builds the collection for facilities. Facilities without
// coordinates are skipped.
func FeatureCollection(facilities []domain.Facility, palette *domain.Palette) (*geomjson.FeatureCollection, error) {
	fc := &geomjson.FeatureCollection{Features: make([]*geomjson.Feature, 0, len(facilities))}
	for _, f := range facilities {
		if !f.Geocoded() {
			continue
		}
		pt, err := geom.NewPoint(geom.XY).SetCoords(geom.Coord{f.Coordinates.Lon, f.Coordinates.Lat})
		if err != nil {
			return nil, fmt.Errorf("row %d: build point: %w", f.Row, err)
		}
		fc.Features = append(fc.Features, &geomjson.Feature{
			ID:         strconv.Itoa(f.Row),
			Geometry:   pt.SetSRID(SRID),
			Properties: properties(f, palette),
		})
	}
	return fc, nil
}

func properties(f domain.Facility, palette *domain.Palette) map[string]any {
	return map[string]any{
		"name":         f.Name,
		"category":     f.Category,
		"layer":        palette.LayerFor(f.Category),
		"marker_color": palette.Color(f.Category),
		"address":      f.FullAddress,
		"phone":        f.Phone,
		"places_link":  domain.PlacesLink(f.Name),
	}
}

// Encode writes the indented collection for facilities to w.
func Encode(w io.Writer, facilities []domain.Facility, palette *domain.Palette) error {
	fc, err := FeatureCollection(facilities, palette)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	return nil
}
