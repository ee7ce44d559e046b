// Package pdfdir renders a printable directory of geocoded facilities,
// grouped by map layer.
package pdfdir

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/couchcryptid/health-facility-map/internal/atomicfile"
	"github.com/couchcryptid/health-facility-map/internal/domain"
)

const title = "Strutture sanitarie"

// Column widths in mm; A4 portrait leaves 190mm inside default margins.
var columns = []struct {
	header string
	width  float64
}{
	{"Nominativo", 60},
	{"Indirizzo", 90},
	{"Telefono", 40},
}

// Exporter writes the directory PDF to a file.
type Exporter struct {
	path    string
	palette *domain.Palette
}

// NewExporter creates an exporter writing to path.
func NewExporter(path string, palette *domain.Palette) *Exporter {
	return &Exporter{path: path, palette: palette}
}

// Name identifies the sink in logs and metrics.
func (e *Exporter) Name() string { return "pdf" }

// Export renders the geocoded facilities of t and writes the document.
// It returns the number of facilities listed.
func (e *Exporter) Export(ctx context.Context, t *domain.Table) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	facilities := t.Geocoded()
	data, err := Render(facilities, e.palette, t.GeocodedAt)
	if err != nil {
		return 0, err
	}
	if err := atomicfile.Write(e.path, data); err != nil {
		return 0, err
	}
	return len(facilities), nil
}

// Group is the facilities of one layer, in row order.
type Group struct {
	Layer      string
	Color      string
	Facilities []domain.Facility
}

// Groups buckets facilities by layer. Groups follow palette order with the
// catch-all layer last; empty groups are omitted.
func Groups(facilities []domain.Facility, palette *domain.Palette) []Group {
	byLayer := make(map[string][]domain.Facility)
	for _, f := range facilities {
		layer := palette.LayerFor(f.Category)
		byLayer[layer] = append(byLayer[layer], f)
	}

	var out []Group
	for _, e := range palette.Entries() {
		if fs := byLayer[e.Category]; len(fs) > 0 {
			out = append(out, Group{Layer: e.Category, Color: e.Color, Facilities: fs})
		}
	}
	if fs := byLayer[domain.OtherCategory]; len(fs) > 0 {
		out = append(out, Group{Layer: domain.OtherCategory, Color: palette.Default(), Facilities: fs})
	}
	return out
}

// Render builds the PDF document. generatedAt is printed in the heading when
// set.
func Render(facilities []domain.Facility, palette *domain.Palette, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetCreationDate(generatedAt)
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Facilities: %d", len(facilities)))
	pdf.Ln(5)
	if !generatedAt.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Geocoded: %s", generatedAt.Format(time.RFC3339)))
		pdf.Ln(5)
	}

	for _, g := range Groups(facilities, palette) {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 7, tr(fmt.Sprintf("%s (%d)", g.Layer, len(g.Facilities))))
		pdf.Ln(8)

		pdf.SetFont("Arial", "B", 9)
		for _, c := range columns {
			pdf.CellFormat(c.width, 6, c.header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, f := range g.Facilities {
			row := []string{f.Name, f.Street + ", " + f.Municipality, f.Phone}
			for i, c := range columns {
				pdf.CellFormat(c.width, 6, tr(fit(pdf, row[i], c.width)), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fit truncates s so it fits in a cell of width mm.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
